// Trailmark keeps a local, frecency-ranked browser history.
//
// Usage:
//
//	trailmark record --url URL [--title TITLE]
//	trailmark list [--search TEXT] [--when today|yesterday|week|month]
//	trailmark suggest PARTIAL
//	trailmark clear --range hour|today|all
//	trailmark maintain [--dry-run]
package main

import (
	"os"

	"github.com/runnerr0/trailmark/internal/cli"
)

var version = "dev"

func main() {
	// The parser prints its own errors.
	if err := cli.Run(version); err != nil {
		os.Exit(1)
	}
}
