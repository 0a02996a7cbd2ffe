package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/runnerr0/trailmark/internal/config"
	"github.com/runnerr0/trailmark/internal/logging"
	"github.com/runnerr0/trailmark/internal/storage"
)

// cmdEnv is what a command needs to do its work.
type cmdEnv struct {
	cfg    *config.Config
	store  storage.History
	dbPath string
}

// withStore runs fn against the injected store when set, otherwise against
// the configured database, which is closed (after any background
// maintenance finishes) when fn returns.
func withStore(globals *GlobalFlags, injected storage.History, startupMaintenance bool, fn func(rt *cmdEnv) error) error {
	if injected != nil {
		return fn(&cmdEnv{cfg: config.DefaultConfig(), store: injected})
	}

	cfg, err := loadConfig(globals)
	if err != nil {
		return err
	}

	verbose := globals != nil && globals.Verbose
	logger, closeLog, err := logging.New(cfg.Logging, verbose)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer closeLog() //nolint:errcheck
	slog.SetDefault(logger)

	dbPath, err := resolveDBPath(globals, cfg)
	if err != nil {
		return err
	}

	store, err := storage.Open(dbPath, storage.Options{
		Driver:                    cfg.Storage.Driver,
		BusyTimeout:               time.Duration(cfg.Storage.BusyTimeoutMS) * time.Millisecond,
		Caps:                      cfg.History.Caps(),
		Logger:                    logger,
		DisableStartupMaintenance: !startupMaintenance,
	})
	if err != nil {
		return err
	}

	runErr := fn(&cmdEnv{cfg: cfg, store: store, dbPath: dbPath})
	if err := store.Close(); err != nil && runErr == nil {
		return fmt.Errorf("close store: %w", err)
	}
	return runErr
}

// loadConfig reads --config when given, otherwise the default config file,
// creating it on first use. An unreadable default file falls back to
// built-in defaults.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.Load(globals.Config)
	}
	cfg, err := config.LoadOrCreate()
	if err != nil {
		slog.Warn("using default config", "error", err)
		return config.DefaultConfig(), nil
	}
	return cfg, nil
}

func resolveDBPath(globals *GlobalFlags, cfg *config.Config) (string, error) {
	if globals != nil && globals.DBPath != "" {
		return globals.DBPath, nil
	}
	path, err := cfg.Storage.DBPath()
	if err != nil {
		return "", fmt.Errorf("resolve database path: %w", err)
	}
	return path, nil
}

func jsonOutput(globals *GlobalFlags) bool {
	return globals != nil && globals.JSON
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// entryJSON is the JSON form of a history entry.
type entryJSON struct {
	URL        string `json:"url"`
	Title      string `json:"title,omitempty"`
	VisitCount int    `json:"visit_count"`
	FirstVisit string `json:"first_visit"`
	LastVisit  string `json:"last_visit"`
	Frecency   int    `json:"frecency"`
}

func toEntryJSON(e storage.HistoryEntry) entryJSON {
	return entryJSON{
		URL:        e.URL,
		Title:      e.Title,
		VisitCount: e.VisitCount,
		FirstVisit: e.FirstVisit.UTC().Format(time.RFC3339),
		LastVisit:  e.LastVisit.UTC().Format(time.RFC3339),
		Frecency:   e.Frecency,
	}
}

func toEntriesJSON(entries []storage.HistoryEntry) []entryJSON {
	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = toEntryJSON(e)
	}
	return out
}

// displayTitle falls back to the URL for untitled entries.
func displayTitle(e storage.HistoryEntry) string {
	if e.Title == "" {
		return e.URL
	}
	return e.Title
}
