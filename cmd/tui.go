package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/nibzard/tasklist-go/internal/ui"
)

// tuiCommand launches the terminal UI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasklist tui", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	theme := fs.String("theme", a.cfg.Theme, "Initial theme (light, dark)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	store, backend, err := a.openStore()
	if err != nil {
		return err
	}
	defer backend.Close()

	return ui.RunTUI(ctx, store,
		ui.WithTheme(*theme),
		ui.WithActivity(func(command string, id int, err error) {
			a.record(store, activityEvent(command, nil, id, err))
		}),
	)
}
