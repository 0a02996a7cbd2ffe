package cli

import (
	"io"

	"github.com/runnerr0/trailmark/internal/storage"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	DBPath  string `long:"db-path" description:"Path to the history database (overrides config)"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// RecordCommand: record one visit, as the browser does on page load.
type RecordCommand struct {
	URL   string `long:"url" description:"Visited URL (required)"`
	Title string `long:"title" description:"Page title"`

	globals *GlobalFlags
	version string
	store   storage.History // injectable for testing; nil means open default store
}

// ListCommand: list history newest first.
type ListCommand struct {
	Search string `long:"search" description:"Substring to match in URL or title"`
	When   string `long:"when" description:"Time window (UTC days)" choice:"today" choice:"yesterday" choice:"week" choice:"month"`
	Limit  int    `long:"limit" description:"Maximum results" default:"20"`
	Offset int    `long:"offset" description:"Skip first N results" default:"0"`

	globals *GlobalFlags
	version string
	store   storage.History
}

// SuggestCommand: autocomplete suggestions ranked by frecency.
type SuggestCommand struct {
	Limit int `long:"limit" description:"Maximum suggestions" default:"8"`

	globals *GlobalFlags
	version string
	store   storage.History
}

// ShowCommand: print one history entry.
type ShowCommand struct {
	URL string `long:"url" description:"URL to show (required)"`

	globals *GlobalFlags
	version string
	store   storage.History
}

// CountCommand: print the number of history entries.
type CountCommand struct {
	globals *GlobalFlags
	version string
	store   storage.History
}

// DeleteCommand: delete entries by URL.
type DeleteCommand struct {
	URLs []string `long:"url" description:"URL to delete (repeatable)"`

	globals *GlobalFlags
	version string
	store   storage.History
}

// ClearCommand: bulk-delete history by age with safety confirmation.
type ClearCommand struct {
	Range string `long:"range" description:"What to clear" choice:"hour" choice:"today" choice:"all" default:"hour"`
	Force bool   `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	store   storage.History
	stdin   io.Reader // confirmation input; nil means os.Stdin
}

// StatusCommand: show database statistics and caps.
type StatusCommand struct {
	globals *GlobalFlags
	version string
	store   storage.History
}

// MaintainCommand: enforce size and entry caps now.
type MaintainCommand struct {
	DryRun bool `long:"dry-run" description:"Show what would be evicted without deleting"`

	globals *GlobalFlags
	version string
	store   storage.History
}
