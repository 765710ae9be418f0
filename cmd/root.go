// Package cmd implements the CLI command structure for tasklist.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/kv"
	"github.com/nibzard/tasklist-go/internal/logging"
	"github.com/nibzard/tasklist-go/internal/todo"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every subcommand needs.
type app struct {
	cfg      *config.Config
	sources  *config.ConfigWithSources
	out      io.Writer
	errOut   io.Writer
	logger   *log.Logger
	activity *logging.RunLogger
}

// Run executes the tasklist CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasklist", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		printUsage(fs, errOut)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, out)
		return nil
	}
	if *showVersion {
		return versionCommand(out)
	}

	// Determine the subcommand
	// If no args or first arg is a flag, list tasks
	subcommand := "ls"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	logger, activity, err := logging.Setup(cws.Config, errOut)
	if err != nil {
		logger.Warn("activity log disabled", "err", err)
	}
	defer activity.Close()

	a := &app{
		cfg:      cws.Config,
		sources:  cws,
		out:      out,
		errOut:   errOut,
		logger:   logger,
		activity: activity,
	}

	// Execute the subcommand
	switch subcommand {
	case "add":
		return a.addCommand(remainingArgs)
	case "done", "complete":
		return a.idCommand("done", remainingArgs)
	case "rm", "delete":
		return a.idCommand("rm", remainingArgs)
	case "crit", "critical":
		return a.idCommand("crit", remainingArgs)
	case "up":
		return a.idCommand("up", remainingArgs)
	case "down":
		return a.idCommand("down", remainingArgs)
	case "edit":
		return a.editCommand(remainingArgs)
	case "ls", "list":
		return a.lsCommand(remainingArgs)
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "doctor":
		return a.doctorCommand(remainingArgs)
	case "tail":
		return a.tailCommand(ctx, remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "version":
		return versionCommand(out)
	case "help":
		printUsage(fs, out)
		return nil
	default:
		fmt.Fprintf(errOut, "Unknown command: %s\n", subcommand)
		printUsage(fs, errOut)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openBackend opens the configured key-value backend.
func (a *app) openBackend() (kv.Store, error) {
	backend, err := kv.Open(a.cfg.Storage, a.cfg.StorageLocation())
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", a.cfg.Storage, err)
	}
	return backend, nil
}

// openStore opens the task store on the configured backend and slot. The
// caller closes the returned backend.
func (a *app) openStore() (*todo.TaskStore, kv.Store, error) {
	backend, err := a.openBackend()
	if err != nil {
		return nil, nil, err
	}
	filter, err := todo.ParseFilter(a.cfg.DefaultFilter)
	if err != nil {
		filter = todo.FilterPending
	}
	store, err := todo.Open(backend,
		todo.WithKey(a.cfg.Slot),
		todo.WithLogger(a.logger),
		todo.WithFilter(filter),
	)
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("loading tasks: %w", err)
	}
	return store, backend, nil
}

// record appends an activity event. Failures are logged, never returned.
func (a *app) record(store *todo.TaskStore, event logging.Event) {
	if a.activity == nil {
		return
	}
	if store != nil {
		pending, completed := store.Counts()
		event.Pending = &pending
		event.Done = &completed
	}
	if err := a.activity.Record(event); err != nil {
		a.logger.Warn("record activity", "command", event.Command, "err", err)
	}
}

// parseArgs parses flags that may appear anywhere among positional
// arguments. Everything after "--" is positional.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasklist version %s\n", Version)
	return nil
}

// configCommand prints an example config, or the effective one with -show.
func (a *app) configCommand(args []string) error {
	fs := flag.NewFlagSet("tasklist config", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	show := fs.Bool("show", false, "Show effective configuration and where each value came from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !*show {
		fmt.Fprint(a.out, config.ExampleConfig())
		return nil
	}
	printEffectiveConfig(a.out, a.sources)
	return nil
}

func printEffectiveConfig(w io.Writer, cws *config.ConfigWithSources) {
	cfg := cws.Config
	rows := []struct {
		field string
		value any
	}{
		{"storage", cfg.Storage},
		{"data_dir", cfg.DataDir},
		{"db_file", cfg.DBFile},
		{"slot", cfg.Slot},
		{"theme", cfg.Theme},
		{"default_filter", cfg.DefaultFilter},
		{"log_dir", cfg.LogDir},
		{"log_to_file", cfg.LogToFile},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"log_timestamps", cfg.LogTimestamps},
		{"log_caller", cfg.LogCaller},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%-15s = %-30v # %s\n", row.field, row.value, cws.Sources[row.field])
	}
	if len(cws.Files) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Files read:")
		for _, f := range cws.Files {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasklist - a small personal task list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasklist [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add [-due DATE] <text>       Add a pending task (due defaults to today)")
	fmt.Fprintln(w, "  done <id>                    Mark a task completed")
	fmt.Fprintln(w, "  rm <id>                      Delete a task")
	fmt.Fprintln(w, "  crit <id>                    Toggle the critical flag")
	fmt.Fprintln(w, "  up <id> / down <id>          Move a task in manual order")
	fmt.Fprintln(w, "  edit <id> [-text T] [-due D] Change text and/or due date")
	fmt.Fprintln(w, "  ls [pending|completed]       List tasks (default command)")
	fmt.Fprintln(w, "  tui                          Launch terminal UI")
	fmt.Fprintln(w, "  doctor [-v]                  Check config, storage and stored tasks")
	fmt.Fprintln(w, "  tail [-n N] [-f] [-list]     Show the activity log")
	fmt.Fprintln(w, "  config [-show]               Print an example or the effective config")
	fmt.Fprintln(w, "  version                      Show version information")
	fmt.Fprintln(w, "  help                         Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -sort string")
	fmt.Fprintln(w, "        Due date order (auto|asc|desc); auto is asc for pending, desc for completed")
	fmt.Fprintln(w, "  -json")
	fmt.Fprintln(w, "        Print the view as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Dates use the YYYY-MM-DD format.")
}
