package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/trailmark/internal/capture"
)

type recordJSON struct {
	Recorded bool       `json:"recorded"`
	Reason   string     `json:"reason,omitempty"`
	Entry    *entryJSON `json:"entry,omitempty"`
}

// Execute implements the go-flags Commander interface for RecordCommand.
func (c *RecordCommand) Execute(args []string) error {
	if c.URL == "" {
		return fmt.Errorf("--url is required for record command")
	}

	return withStore(c.globals, c.store, true, func(rt *cmdEnv) error {
		ctx := context.Background()

		if ok, reason := capture.NewFilter(rt.cfg.Capture).Check(c.URL); !ok {
			if jsonOutput(c.globals) {
				return printJSON(recordJSON{Recorded: false, Reason: string(reason)})
			}
			fmt.Printf("Skipped %s: %s\n", c.URL, reason)
			return nil
		}

		rt.store.RecordVisit(ctx, c.URL, c.Title)

		// RecordVisit never fails loudly; read back to report what was stored.
		entry, err := rt.store.Get(ctx, c.URL)
		if err != nil {
			return fmt.Errorf("record %s: %w", c.URL, err)
		}

		if jsonOutput(c.globals) {
			out := toEntryJSON(*entry)
			return printJSON(recordJSON{Recorded: true, Entry: &out})
		}
		fmt.Printf("Recorded %s (visits: %d, frecency: %d)\n", entry.URL, entry.VisitCount, entry.Frecency)
		return nil
	})
}
