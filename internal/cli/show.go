package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/trailmark/internal/storage"
)

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	url := c.URL
	if url == "" && len(args) > 0 {
		url = args[0]
	}
	if url == "" {
		return fmt.Errorf("--url is required for show command")
	}

	return withStore(c.globals, c.store, true, func(rt *cmdEnv) error {
		entry, err := rt.store.Get(context.Background(), url)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no history for %s", url)
		}
		if err != nil {
			return err
		}

		if jsonOutput(c.globals) {
			return printJSON(toEntryJSON(*entry))
		}
		fmt.Printf("URL:         %s\n", entry.URL)
		if entry.Title != "" {
			fmt.Printf("Title:       %s\n", entry.Title)
		}
		fmt.Printf("Visits:      %s\n", humanize.Comma(int64(entry.VisitCount)))
		fmt.Printf("First visit: %s\n", entry.FirstVisit.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Last visit:  %s (%s)\n", entry.LastVisit.Local().Format("2006-01-02 15:04:05"), humanize.Time(entry.LastVisit))
		fmt.Printf("Frecency:    %d\n", entry.Frecency)
		return nil
	})
}
