package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"chatty", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		input string
		want  log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
		{"xml", log.TextFormatter},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormatter(tt.input); got != tt.want {
				t.Errorf("ParseFormatter(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if got := OptionsFromConfig(nil); got != DefaultOptions() {
		t.Errorf("nil config: got %+v, want defaults", got)
	}

	cfg := &config.Config{LogLevel: "debug", LogFormat: "json", LogTimestamps: true, LogCaller: true}
	opts := OptionsFromConfig(cfg)
	if opts.Level != log.DebugLevel {
		t.Errorf("Level: got %v, want debug", opts.Level)
	}
	if opts.Formatter != log.JSONFormatter {
		t.Errorf("Formatter: got %v, want json", opts.Formatter)
	}
	if !opts.ReportTimestamp || !opts.ReportCaller {
		t.Errorf("got %+v, want timestamps and caller", opts)
	}
	if opts.Prefix != "tasklist" {
		t.Errorf("Prefix: got %q, want tasklist", opts.Prefix)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Formatter = log.JSONFormatter
	opts.Level = log.WarnLevel
	logger := NewLogger(&buf, opts)

	logger.Info("hidden")
	logger.Warn("shown", "slot", "todos")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("unmarshal %q: %v", lines[0], err)
	}
	if record["msg"] != "shown" {
		t.Errorf("msg: got %v, want shown", record["msg"])
	}
	if record["slot"] != "todos" {
		t.Errorf("slot: got %v, want todos", record["slot"])
	}

	// nil writer discards
	NewLogger(nil, DefaultOptions()).Error("dropped")
}

func TestSetup(t *testing.T) {
	t.Run("file logging off", func(t *testing.T) {
		cfg := &config.Config{LogLevel: "info", LogFormat: "text", LogDir: t.TempDir(), Slot: "todos"}
		logger, run, err := Setup(cfg, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("Setup: %v", err)
		}
		if logger == nil {
			t.Fatal("expected logger")
		}
		if run != nil {
			t.Errorf("expected no run logger, got %+v", run)
		}
		// nil run logger is safe to use
		if err := run.Record(Event{Command: "add"}); err != nil {
			t.Errorf("Record on nil: %v", err)
		}
		if err := run.Close(); err != nil {
			t.Errorf("Close on nil: %v", err)
		}
	})

	t.Run("file logging on", func(t *testing.T) {
		dir := t.TempDir()
		cfg := &config.Config{LogLevel: "info", LogFormat: "text", LogDir: dir, LogToFile: true, Slot: "work list"}
		_, run, err := Setup(cfg, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("Setup: %v", err)
		}
		defer run.Close()
		if want := filepath.Join(dir, "work_list"); run.Dir != want {
			t.Errorf("Dir: got %q, want %q", run.Dir, want)
		}
		if _, err := os.Stat(run.LogPath); err != nil {
			t.Errorf("log file not created: %v", err)
		}
	})

	t.Run("unwritable log dir", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, nil, 0644); err != nil {
			t.Fatal(err)
		}
		cfg := &config.Config{LogDir: blocker, LogToFile: true, Slot: "todos"}
		logger, run, err := Setup(cfg, &bytes.Buffer{})
		if err == nil {
			t.Fatal("expected error")
		}
		if logger == nil {
			t.Error("expected console logger even on error")
		}
		if run != nil {
			t.Error("expected nil run logger on error")
		}
	})
}
