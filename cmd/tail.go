package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/nibzard/tasklist-go/internal/logging"
)

// tailCommand shows the latest activity log.
func (a *app) tailCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasklist tail", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	list := fs.Bool("list", false, "List activity log files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logDir, err := logging.FindLogDir(a.cfg.LogDir, a.cfg.Slot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	if *list {
		runs, err := logging.FindLogRuns(logDir)
		if err != nil || len(runs) == 0 {
			fmt.Fprintln(a.out, "No log files found.")
			return nil
		}
		for _, run := range runs {
			fmt.Fprintf(a.out, "%s  %8d bytes  %s\n", run.ModTime.Format("2006-01-02 15:04"), run.Size, run.Path)
		}
		return nil
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(a.out, "No log files found.")
		return nil
	}

	fmt.Fprintf(a.errOut, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(a.errOut, "(Ctrl+C to stop)")
	}

	return logging.TailLog(ctx, a.out, logPath, *n, *follow)
}
