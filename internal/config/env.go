package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setEnv := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TASKLIST_STORAGE"); v != "" {
		cfg.Storage = v
		setEnv("storage")
	}
	if v := os.Getenv("TASKLIST_DATA_DIR"); v != "" {
		cfg.DataDir = v
		setEnv("data_dir")
	}
	if v := os.Getenv("TASKLIST_DB_FILE"); v != "" {
		cfg.DBFile = v
		setEnv("db_file")
	}
	if v := os.Getenv("TASKLIST_SLOT"); v != "" {
		cfg.Slot = v
		setEnv("slot")
	}
	if v := os.Getenv("TASKLIST_THEME"); v != "" {
		cfg.Theme = v
		setEnv("theme")
	}
	if v := os.Getenv("TASKLIST_FILTER"); v != "" {
		cfg.DefaultFilter = v
		setEnv("default_filter")
	}

	// Logging configuration
	if v := os.Getenv("TASKLIST_LOG_DIR"); v != "" {
		cfg.LogDir = v
		setEnv("log_dir")
	}
	if v := os.Getenv("TASKLIST_LOG_FILE"); v != "" {
		cfg.LogToFile = boolFromString(v)
		setEnv("log_to_file")
	}
	if v := os.Getenv("TASKLIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TASKLIST_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TASKLIST_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("TASKLIST_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
