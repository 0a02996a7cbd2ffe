package cli

import (
	"context"
	"fmt"
)

// Execute implements the go-flags Commander interface for DeleteCommand.
func (c *DeleteCommand) Execute(args []string) error {
	urls := append(append([]string{}, c.URLs...), args...)
	if len(urls) == 0 {
		return fmt.Errorf("delete requires at least one --url")
	}

	return withStore(c.globals, c.store, true, func(rt *cmdEnv) error {
		ctx := context.Background()

		var err error
		if len(urls) == 1 {
			err = rt.store.DeleteEntry(ctx, urls[0])
		} else {
			err = rt.store.DeleteEntries(ctx, urls)
		}
		if err != nil {
			return fmt.Errorf("delete: %w", err)
		}

		if jsonOutput(c.globals) {
			return printJSON(map[string][]string{"deleted": urls})
		}
		for _, u := range urls {
			fmt.Printf("Deleted %s\n", u)
		}
		return nil
	})
}
