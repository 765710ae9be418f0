package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasklist configuration file
# Values can be overridden by TASKLIST_* environment variables or CLI flags.

# Storage backend: file, sqlite or memory
storage = "file"

# Data directory (supports ~ expansion and %VAR% on Windows)
data_dir = "~/.tasklist"

# SQLite database file, relative to data_dir (sqlite backend only)
db_file = "tasklist.db"

# Slot the task list is stored under
slot = "todos"

# TUI theme: light or dark
theme = "light"

# View shown by "ls" and the TUI on start: pending or completed
default_filter = "pending"

# Logging
log_dir = "~/.tasklist/logs"
log_to_file = true
log_level = "info"       # debug, info, warn, error
log_format = "text"      # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
