package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nibzard/tasklist-go/internal/kv"
	"github.com/nibzard/tasklist-go/internal/logging"
	"github.com/nibzard/tasklist-go/internal/todo"
)

// doctorCommand checks config, storage, stored tasks and the log directory.
func (a *app) doctorCommand(args []string) error {
	fs := flag.NewFlagSet("tasklist doctor", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := a.out
	cfg := a.cfg

	fmt.Fprintln(w, "tasklist doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintln(w, "Config:")
	if len(a.sources.Files) == 0 {
		fmt.Fprintln(w, "  ⚠️  No config file (using defaults)")
	}
	for _, f := range a.sources.Files {
		fmt.Fprintf(w, "  ✅ %s\n", f)
	}
	if *verbose {
		printEffectiveConfig(indentWriter{w}, a.sources)
	}
	fmt.Fprintln(w)

	// Storage
	fmt.Fprintf(w, "Storage: %s", cfg.Storage)
	if loc := cfg.StorageLocation(); loc != "" {
		fmt.Fprintf(w, " (%s)", loc)
	}
	fmt.Fprintln(w)
	backend, err := a.openBackend()
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		defer backend.Close()
		fmt.Fprintln(w, "  ✅ OK")
		if cfg.Storage == kv.BackendMemory {
			fmt.Fprintln(w, "  ⚠️  Memory storage does not persist between runs")
		}
	}
	fmt.Fprintln(w)

	// Slot
	fmt.Fprintf(w, "Slot: %s\n", cfg.Slot)
	if backend != nil {
		if !checkSlot(a, backend, *verbose) {
			allOK = false
		}
	} else {
		fmt.Fprintln(w, "  ⚠️  Skipped (storage unavailable)")
	}
	fmt.Fprintln(w)

	// Log directory
	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.Slot)
	if err != nil {
		logDir = cfg.LogDir
	}
	fmt.Fprintf(w, "Log directory: %s\n", logDir)
	switch info, err := os.Stat(logDir); {
	case err == nil && !info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	case err == nil:
		fmt.Fprintln(w, "  ✅ OK")
	case os.IsNotExist(err):
		if cfg.LogToFile {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on the next change)")
		} else {
			fmt.Fprintln(w, "  ⚠️  Not found (file logging is off)")
		}
	default:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	}
	fmt.Fprintln(w)

	// Overall status
	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. tasklist may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkSlot validates the raw slot contents against the task schema.
func checkSlot(a *app, backend kv.Store, verbose bool) bool {
	w := a.out
	raw, ok, err := backend.Get(a.cfg.Slot)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Read error: %v\n", err)
		return false
	}
	if !ok {
		fmt.Fprintln(w, "  ⚠️  Empty (nothing stored yet)")
		return true
	}

	tasks, decodeErr := todo.Decode([]byte(raw))
	result := todo.ValidateSlot([]byte(raw))
	if !result.Valid {
		if decodeErr != nil {
			fmt.Fprintln(w, "  ❌ Validation failed (the list will load empty):")
		} else {
			fmt.Fprintln(w, "  ❌ Validation failed (records are repaired when loaded):")
		}
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	if decodeErr != nil {
		fmt.Fprintf(w, "  ❌ Decode error: %v\n", decodeErr)
		return false
	}
	fmt.Fprintln(w, "  ✅ Valid")
	pending, completed := 0, 0
	for _, t := range tasks {
		if t.Completed() {
			completed++
		} else {
			pending++
		}
	}
	fmt.Fprintf(w, "  Tasks: %d pending, %d completed\n", pending, completed)
	if verbose {
		width := len(fmt.Sprint(maxID(tasks)))
		for _, t := range tasks {
			fmt.Fprint(w, "  ")
			printTask(w, t, width)
		}
	}
	return true
}

// indentWriter indents every line written through it by two spaces. Blank
// lines are written as is.
type indentWriter struct {
	w io.Writer
}

func (iw indentWriter) Write(p []byte) (int, error) {
	if len(p) == 0 || string(p) == "\n" {
		return iw.w.Write(p)
	}
	if _, err := iw.w.Write([]byte("  ")); err != nil {
		return 0, err
	}
	return iw.w.Write(p)
}
