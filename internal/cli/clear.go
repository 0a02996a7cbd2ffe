package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/trailmark/internal/storage"
)

const clearAllConfirmation = "CLEAR"

type clearJSON struct {
	Range   string `json:"range"`
	Cleared int64  `json:"cleared"`
}

// Execute implements the go-flags Commander interface for ClearCommand.
func (c *ClearCommand) Execute(args []string) error {
	r, err := storage.ParseClearRange(c.Range)
	if err != nil {
		return err
	}

	return withStore(c.globals, c.store, true, func(rt *cmdEnv) error {
		ctx := context.Background()

		if !c.Force && !c.confirm(r, rt.store.Count(ctx)) {
			fmt.Println("Aborted.")
			return nil
		}

		n, err := rt.store.Clear(ctx, r)
		if err != nil {
			return fmt.Errorf("clear %s: %w", r, err)
		}

		if jsonOutput(c.globals) {
			return printJSON(clearJSON{Range: string(r), Cleared: n})
		}
		fmt.Printf("Cleared %s entries (%s).\n", humanize.Comma(n), describeRange(r))
		return nil
	})
}

// confirm asks before deleting. Clearing everything requires typing the
// confirmation word; narrower ranges take y/N.
func (c *ClearCommand) confirm(r storage.ClearRange, total int64) bool {
	var in io.Reader = os.Stdin
	if c.stdin != nil {
		in = c.stdin
	}
	scanner := bufio.NewScanner(in)

	if r == storage.ClearAll {
		fmt.Printf("This will permanently delete ALL %s history entries.\n", humanize.Comma(total))
		fmt.Printf("Type %q to confirm: ", clearAllConfirmation)
		if !scanner.Scan() {
			return false
		}
		return strings.TrimSpace(scanner.Text()) == clearAllConfirmation
	}

	fmt.Printf("Clear history from %s? [y/N] ", describeRange(r))
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func describeRange(r storage.ClearRange) string {
	switch r {
	case storage.ClearHour:
		return "the last hour"
	case storage.ClearToday:
		return "today"
	default:
		return "all time"
	}
}
