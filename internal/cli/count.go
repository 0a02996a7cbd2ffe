package cli

import (
	"context"
	"fmt"
)

// Execute implements the go-flags Commander interface for CountCommand.
func (c *CountCommand) Execute(args []string) error {
	return withStore(c.globals, c.store, true, func(rt *cmdEnv) error {
		n := rt.store.Count(context.Background())
		if jsonOutput(c.globals) {
			return printJSON(map[string]int64{"count": n})
		}
		fmt.Println(n)
		return nil
	})
}
