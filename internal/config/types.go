package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nibzard/tasklist-go/internal/kv"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnvFile  ConfigSource = "config file (TASKLIST_CONFIG)"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultStorage   = kv.BackendFile
	DefaultDataDir   = "~/.tasklist"
	DefaultDBFile    = "tasklist.db"
	DefaultSlot      = "todos"
	DefaultLogDir    = "~/.tasklist/logs"
	DefaultTheme     = ThemeLight
	DefaultFilter    = "pending"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Themes understood by the terminal UI.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config holds the full configuration for tasklist.
type Config struct {
	// Storage
	Storage string `toml:"storage"`
	DataDir string `toml:"data_dir"`
	DBFile  string `toml:"db_file"`
	Slot    string `toml:"slot"`

	// Presentation
	Theme         string `toml:"theme"`
	DefaultFilter string `toml:"default_filter"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogToFile     bool   `toml:"log_to_file"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// StorageLocation returns the directory (file backend) or database path
// (sqlite backend) the configured backend uses. It is empty for memory.
func (c *Config) StorageLocation() string {
	switch c.Storage {
	case kv.BackendFile:
		return c.DataDir
	case kv.BackendSQLite:
		if filepath.IsAbs(c.DBFile) {
			return c.DBFile
		}
		return filepath.Join(c.DataDir, c.DBFile)
	default:
		return ""
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !kv.IsBackend(c.Storage) {
		return fmt.Errorf("storage: invalid backend %q (expected %s)", c.Storage, strings.Join(kv.Backends(), "|"))
	}
	if c.Storage != kv.BackendMemory && strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir: must not be empty")
	}
	if strings.TrimSpace(c.Slot) == "" {
		return fmt.Errorf("slot: must not be empty")
	}
	switch c.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("theme: invalid value %q (expected light|dark)", c.Theme)
	}
	switch c.DefaultFilter {
	case "pending", "completed":
	default:
		return fmt.Errorf("default_filter: invalid value %q (expected pending|completed)", c.DefaultFilter)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("log_level: invalid value %q (expected debug|info|warn|error|fatal)", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log_format: invalid value %q (expected text|json|logfmt)", c.LogFormat)
	}
	return nil
}
