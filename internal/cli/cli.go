package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Serve      *ServeCommand
	Work       *WorkCommand
	All        *AllCommand
	Migrate    *MigrateCommand
	DLQ        *DLQCommand
	DLQList    *DLQListCommand
	DLQRedrive *DLQRedriveCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser() (*goflags.Parser, *GlobalFlags, *commands, error) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "siteflow"
	parser.LongDescription = "Web analytics pipeline: ingestion gateway, durable queue, worker pool and stats API."

	cmds := &commands{
		Serve:      &ServeCommand{globals: &globals},
		Work:       &WorkCommand{globals: &globals},
		All:        &AllCommand{globals: &globals},
		Migrate:    &MigrateCommand{globals: &globals},
		DLQ:        &DLQCommand{},
		DLQList:    &DLQListCommand{globals: &globals, out: os.Stdout},
		DLQRedrive: &DLQRedriveCommand{globals: &globals, out: os.Stdout},
	}

	if _, err := parser.AddCommand("serve", "Run the HTTP API", "Run the ingestion, stats and queue inspection API without workers.", cmds.Serve); err != nil {
		return nil, nil, nil, err
	}
	if _, err := parser.AddCommand("work", "Run the worker pool", "Consume queued events and persist them to the event store.", cmds.Work); err != nil {
		return nil, nil, nil, err
	}
	if _, err := parser.AddCommand("all", "Run the API and the worker pool", "Run the HTTP API and the worker pool in one process.", cmds.All); err != nil {
		return nil, nil, nil, err
	}
	if _, err := parser.AddCommand("migrate", "Apply database migrations", "Apply the postgres migrations for the event store and the queue, then exit.", cmds.Migrate); err != nil {
		return nil, nil, nil, err
	}

	dlq, err := parser.AddCommand("dlq", "Inspect dead-lettered jobs", "List and redrive jobs that exhausted their retries.", cmds.DLQ)
	if err != nil {
		return nil, nil, nil, err
	}
	if _, err := dlq.AddCommand("list", "List dead-lettered jobs", "Print dead-lettered jobs as JSON.", cmds.DLQList); err != nil {
		return nil, nil, nil, err
	}
	if _, err := dlq.AddCommand("redrive", "Redrive a dead-lettered job", "Enqueue a fresh job carrying the event of a dead-lettered job.", cmds.DLQRedrive); err != nil {
		return nil, nil, nil, err
	}

	return parser, &globals, cmds, nil
}

// Run is the main entry point for the siteflow CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// --version is valid without a subcommand.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("siteflow %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _, err := buildParser()
	if err != nil {
		return err
	}

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
