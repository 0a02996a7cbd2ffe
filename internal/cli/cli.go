package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Record   *RecordCommand
	List     *ListCommand
	Suggest  *SuggestCommand
	Show     *ShowCommand
	Count    *CountCommand
	Delete   *DeleteCommand
	Clear    *ClearCommand
	Status   *StatusCommand
	Maintain *MaintainCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "trailmark"
	parser.LongDescription = "Local browser history store with frecency-ranked suggestions."

	cmds := &commands{
		Record:   &RecordCommand{globals: &globals, version: version},
		List:     &ListCommand{globals: &globals, version: version},
		Suggest:  &SuggestCommand{globals: &globals, version: version},
		Show:     &ShowCommand{globals: &globals, version: version},
		Count:    &CountCommand{globals: &globals, version: version},
		Delete:   &DeleteCommand{globals: &globals, version: version},
		Clear:    &ClearCommand{globals: &globals, version: version},
		Status:   &StatusCommand{globals: &globals, version: version},
		Maintain: &MaintainCommand{globals: &globals, version: version},
	}

	parser.AddCommand("record", "Record a page visit", "Record a visit to a URL, creating or updating its history entry.", cmds.Record)
	parser.AddCommand("list", "List history newest first", "List history entries newest first, with optional search and time window.", cmds.List)
	parser.AddCommand("suggest", "Suggest URLs for partial input", "Suggest history entries matching partial input, best frecency first.", cmds.Suggest)
	parser.AddCommand("show", "Show one history entry", "Show the stored history entry for a URL.", cmds.Show)
	parser.AddCommand("count", "Count history entries", "Print the number of history entries.", cmds.Count)
	parser.AddCommand("delete", "Delete history entries", "Delete the history entries for one or more URLs.", cmds.Delete)
	parser.AddCommand("clear", "Clear recent or all history", "Clear history from the last hour, today, or all of it. Prompts unless --force.", cmds.Clear)
	parser.AddCommand("status", "Show database statistics", "Show history statistics, database size, and configured caps.", cmds.Status)
	parser.AddCommand("maintain", "Enforce size and entry caps", "Evict the oldest entries if the database exceeds its caps, then reclaim space.", cmds.Maintain)

	return parser, &globals, cmds
}

// Run is the main entry point for the trailmark CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// go-flags requires a subcommand, but --version is valid without one.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("trailmark %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
