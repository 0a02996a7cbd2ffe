package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/trailmark/internal/storage"
)

// listJSON is the JSON output structure for list and suggest.
type listJSON struct {
	Query   string      `json:"query,omitempty"`
	Count   int         `json:"count"`
	Results []entryJSON `json:"results"`
}

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	search := c.Search
	if search == "" && len(args) > 0 {
		search = strings.Join(args, " ")
	}

	when, err := storage.ParseTimeFilter(c.When)
	if err != nil {
		return err
	}

	return withStore(c.globals, c.store, true, func(rt *cmdEnv) error {
		entries := rt.store.List(context.Background(), storage.ListQuery{
			Limit:  c.Limit,
			Offset: c.Offset,
			Search: search,
			When:   when,
		})

		if jsonOutput(c.globals) {
			return printJSON(listJSON{Query: search, Count: len(entries), Results: toEntriesJSON(entries)})
		}
		if len(entries) == 0 {
			fmt.Println("No history found.")
			return nil
		}
		printEntries(entries, c.Offset)
		return nil
	})
}

func printEntries(entries []storage.HistoryEntry, offset int) {
	for i, e := range entries {
		fmt.Printf("%d. %s\n", offset+i+1, displayTitle(e))
		fmt.Printf("   %s\n", e.URL)
		fmt.Printf("   %s | %s | frecency %d\n",
			humanize.Time(e.LastVisit), pluralVisits(e.VisitCount), e.Frecency)
	}
}

func pluralVisits(n int) string {
	if n == 1 {
		return "1 visit"
	}
	return humanize.Comma(int64(n)) + " visits"
}
