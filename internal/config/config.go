package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/runnerr0/trailmark/internal/storage"
)

// Default config file path.
const DefaultConfigPath = "~/.config/trailmark/config.yaml"

// Config holds all trailmark configuration.
type Config struct {
	History HistoryConfig `yaml:"history"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Capture CaptureConfig `yaml:"capture"`
}

type HistoryConfig struct {
	MaxSizeMB      int `yaml:"max_size_mb"`
	MaxEntries     int `yaml:"max_entries"`
	CleanupPercent int `yaml:"cleanup_percent"`
}

type StorageConfig struct {
	Path          string `yaml:"path"`
	SQLiteFile    string `yaml:"sqlite_file"`
	Driver        string `yaml:"driver"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

type CaptureConfig struct {
	SkipSchemes     []string `yaml:"skip_schemes"`
	DenylistDomains []string `yaml:"denylist_domains"`
}

// Caps converts the history limits to storage caps.
func (h HistoryConfig) Caps() storage.Caps {
	return storage.Caps{
		MaxSizeBytes:   int64(h.MaxSizeMB) * 1024 * 1024,
		MaxEntries:     int64(h.MaxEntries),
		CleanupPercent: h.CleanupPercent,
	}
}

// DBPath returns the resolved SQLite file path.
func (s StorageConfig) DBPath() (string, error) {
	dir, err := expandPath(s.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, s.SQLiteFile), nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.History.MaxSizeMB < 0 {
		return fmt.Errorf("history.max_size_mb must not be negative, got %d", c.History.MaxSizeMB)
	}
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must not be negative, got %d", c.History.MaxEntries)
	}
	if c.History.CleanupPercent < 1 || c.History.CleanupPercent > 100 {
		return fmt.Errorf("history.cleanup_percent must be between 1 and 100, got %d", c.History.CleanupPercent)
	}
	if c.Storage.SQLiteFile == "" {
		return fmt.Errorf("storage.sqlite_file must be set")
	}
	if !slices.Contains([]string{storage.DriverCGO, storage.DriverPureGo}, c.Storage.Driver) {
		return fmt.Errorf("storage.driver must be %q or %q, got %q", storage.DriverCGO, storage.DriverPureGo, c.Storage.Driver)
	}
	if c.Storage.BusyTimeoutMS < 0 {
		return fmt.Errorf("storage.busy_timeout_ms must not be negative, got %d", c.Storage.BusyTimeoutMS)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Logging.Level) {
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	if !slices.Contains([]string{"text", "json"}, c.Logging.Format) {
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read, contains invalid YAML, or
// fails validation.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := expandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
