package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/trailmark/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string      `json:"version"`
	DatabasePath      string      `json:"database_path,omitempty"`
	DatabaseSizeBytes int64       `json:"database_size_bytes"`
	TotalEntries      int64       `json:"total_entries"`
	TotalVisits       int64       `json:"total_visits"`
	OldestVisit       string      `json:"oldest_visit,omitempty"`
	NewestVisit       string      `json:"newest_visit,omitempty"`
	Caps              capsJSON    `json:"caps"`
	TopEntries        []entryJSON `json:"top_entries"`
}

type capsJSON struct {
	MaxSizeBytes   int64 `json:"max_size_bytes"`
	MaxEntries     int64 `json:"max_entries"`
	CleanupPercent int   `json:"cleanup_percent"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	return withStore(c.globals, c.store, true, func(rt *cmdEnv) error {
		stats, err := rt.store.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("get stats: %w", err)
		}

		caps := rt.cfg.History.Caps()
		if jsonOutput(c.globals) {
			return c.printStatusJSON(stats, rt.dbPath, caps)
		}
		c.printStatusHuman(stats, rt.dbPath, caps)
		return nil
	})
}

func (c *StatusCommand) printStatusHuman(stats *storage.Stats, dbPath string, caps storage.Caps) {
	fmt.Println("Trailmark Status")
	fmt.Println("================")
	fmt.Printf("Version:       %s\n", c.version)
	if dbPath != "" {
		fmt.Printf("Database:      %s (%s)\n", dbPath, humanize.IBytes(uint64(stats.DatabaseSizeBytes)))
	} else {
		fmt.Printf("Database:      %s\n", humanize.IBytes(uint64(stats.DatabaseSizeBytes)))
	}
	fmt.Printf("Entries:       %s\n", humanize.Comma(stats.TotalEntries))
	fmt.Printf("Visits:        %s\n", humanize.Comma(stats.TotalVisits))

	if stats.TotalEntries > 0 {
		fmt.Printf("Oldest:        %s\n", stats.OldestVisit.Local().Format("2006-01-02"))
		fmt.Printf("Newest:        %s\n", stats.NewestVisit.Local().Format("2006-01-02"))
	}

	fmt.Printf("Caps:          %s, %s entries (evict %d%%)\n",
		capLabel(caps.MaxSizeBytes, humanize.IBytes(uint64(caps.MaxSizeBytes))),
		capLabel(caps.MaxEntries, humanize.Comma(caps.MaxEntries)),
		caps.CleanupPercent)

	if len(stats.TopEntries) > 0 {
		fmt.Println()
		fmt.Println("Top Sites:")
		for _, e := range stats.TopEntries {
			fmt.Printf("  %-6d %s\n", e.Frecency, e.URL)
		}
	}
}

func capLabel(v int64, formatted string) string {
	if v <= 0 {
		return "unlimited"
	}
	return formatted
}

func (c *StatusCommand) printStatusJSON(stats *storage.Stats, dbPath string, caps storage.Caps) error {
	out := statusJSON{
		Version:           c.version,
		DatabasePath:      dbPath,
		DatabaseSizeBytes: stats.DatabaseSizeBytes,
		TotalEntries:      stats.TotalEntries,
		TotalVisits:       stats.TotalVisits,
		Caps: capsJSON{
			MaxSizeBytes:   caps.MaxSizeBytes,
			MaxEntries:     caps.MaxEntries,
			CleanupPercent: caps.CleanupPercent,
		},
		TopEntries: toEntriesJSON(stats.TopEntries),
	}

	if stats.TotalEntries > 0 {
		out.OldestVisit = stats.OldestVisit.UTC().Format(time.RFC3339)
		out.NewestVisit = stats.NewestVisit.UTC().Format(time.RFC3339)
	}

	return printJSON(out)
}
