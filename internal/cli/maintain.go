package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/trailmark/internal/storage"
)

type maintainJSON struct {
	DryRun         bool  `json:"dry_run"`
	Entries        int64 `json:"entries"`
	SizeBytes      int64 `json:"size_bytes"`
	OverSize       bool  `json:"over_size"`
	OverCount      bool  `json:"over_count"`
	Victims        int64 `json:"victims"`
	Evicted        int64 `json:"evicted"`
	SizeAfterBytes int64 `json:"size_after_bytes,omitempty"`
}

// Execute implements the go-flags Commander interface for MaintainCommand.
func (c *MaintainCommand) Execute(args []string) error {
	// The explicit run replaces the startup check.
	return withStore(c.globals, c.store, false, func(rt *cmdEnv) error {
		ctx := context.Background()

		var rep *storage.MaintenanceReport
		var err error
		if c.DryRun {
			rep, err = rt.store.PlanMaintenance(ctx)
		} else {
			rep, err = rt.store.Maintain(ctx)
		}
		if err != nil {
			return fmt.Errorf("maintain: %w", err)
		}

		if jsonOutput(c.globals) {
			return printJSON(maintainJSON{
				DryRun:         c.DryRun,
				Entries:        rep.Entries,
				SizeBytes:      rep.SizeBytes,
				OverSize:       rep.OverSize,
				OverCount:      rep.OverCount,
				Victims:        rep.Victims,
				Evicted:        rep.Evicted,
				SizeAfterBytes: rep.SizeAfterBytes,
			})
		}
		c.printHuman(rep)
		return nil
	})
}

func (c *MaintainCommand) printHuman(rep *storage.MaintenanceReport) {
	fmt.Printf("Entries: %s, size: %s\n", humanize.Comma(rep.Entries), humanize.IBytes(uint64(rep.SizeBytes)))

	if !rep.Exceeded() {
		fmt.Println("Within caps, nothing to do.")
		return
	}

	var over []string
	if rep.OverSize {
		over = append(over, "size")
	}
	if rep.OverCount {
		over = append(over, "entry count")
	}

	if c.DryRun {
		fmt.Printf("[DRY RUN] Over %v cap: would evict %s oldest entries.\n", over, humanize.Comma(rep.Victims))
		return
	}
	fmt.Printf("Over %v cap: evicted %s oldest entries.\n", over, humanize.Comma(rep.Evicted))
	fmt.Printf("Size after reclaim: %s\n", humanize.IBytes(uint64(rep.SizeAfterBytes)))
}
