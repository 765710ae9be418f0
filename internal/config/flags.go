package config

import (
	"flag"
)

// flagFields maps CLI flag names to config field names.
var flagFields = map[string]string{
	"storage":        "storage",
	"data-dir":       "data_dir",
	"db":             "db_file",
	"slot":           "slot",
	"theme":          "theme",
	"filter":         "default_filter",
	"log-dir":        "log_dir",
	"log-file":       "log_to_file",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs and parses args.
// If sources is non-nil, flags that were set explicitly are recorded.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasklist", flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend (file, sqlite, memory)")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory")
	fs.StringVar(&cfg.DBFile, "db", cfg.DBFile, "SQLite database file (relative to data dir)")
	fs.StringVar(&cfg.Slot, "slot", cfg.Slot, "Storage slot the task list is kept under")

	// Presentation
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "TUI theme (light, dark)")
	fs.StringVar(&cfg.DefaultFilter, "filter", cfg.DefaultFilter, "Default view (pending, completed)")

	// Logging
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.BoolVar(&cfg.LogToFile, "log-file", cfg.LogToFile, "Record changes to a daily JSONL activity log")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
