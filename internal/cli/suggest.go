package cli

import (
	"context"
	"fmt"
	"strings"
)

// Execute implements the go-flags Commander interface for SuggestCommand.
func (c *SuggestCommand) Execute(args []string) error {
	partial := strings.Join(args, " ")
	if strings.TrimSpace(partial) == "" {
		return fmt.Errorf("suggest requires partial input")
	}

	return withStore(c.globals, c.store, true, func(rt *cmdEnv) error {
		entries := rt.store.Suggestions(context.Background(), partial, c.Limit)

		if jsonOutput(c.globals) {
			return printJSON(listJSON{Query: partial, Count: len(entries), Results: toEntriesJSON(entries)})
		}
		if len(entries) == 0 {
			fmt.Println("No suggestions.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%-6d %s  %s\n", e.Frecency, e.URL, e.Title)
		}
		return nil
	})
}
