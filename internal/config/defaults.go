package config

import "github.com/runnerr0/trailmark/internal/storage"

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		History: HistoryConfig{
			MaxSizeMB:      storage.DefaultMaxSizeMB,
			MaxEntries:     storage.DefaultMaxEntries,
			CleanupPercent: storage.DefaultCleanupPercent,
		},
		Storage: StorageConfig{
			Path:          "~/.config/trailmark",
			SQLiteFile:    "history.db",
			Driver:        storage.DriverCGO,
			BusyTimeoutMS: 5000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			File:   "",
			Format: "text",
		},
		Capture: CaptureConfig{
			SkipSchemes:     DefaultSkipSchemes(),
			DenylistDomains: []string{},
		},
	}
}
