// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

// isolate points every config lookup at empty temp directories so the
// host's real config files and TASKLIST_* variables do not leak in.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		"TASKLIST_CONFIG", "TASKLIST_STORAGE", "TASKLIST_DATA_DIR", "TASKLIST_DB_FILE",
		"TASKLIST_SLOT", "TASKLIST_THEME", "TASKLIST_FILTER", "TASKLIST_LOG_DIR",
		"TASKLIST_LOG_FILE", "TASKLIST_LOG_LEVEL", "TASKLIST_LOG_FORMAT",
		"TASKLIST_LOG_TIMESTAMPS", "TASKLIST_LOG_CALLER",
	} {
		t.Setenv(name, "")
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.Storage != DefaultStorage {
		t.Errorf("Storage: got %q, want %q", cfg.Storage, DefaultStorage)
	}
	if cfg.Slot != DefaultSlot {
		t.Errorf("Slot: got %q, want %q", cfg.Slot, DefaultSlot)
	}
	if cfg.Theme != ThemeLight {
		t.Errorf("Theme: got %q, want %q", cfg.Theme, ThemeLight)
	}
	if cfg.DefaultFilter != "pending" {
		t.Errorf("DefaultFilter: got %q, want pending", cfg.DefaultFilter)
	}
	if !cfg.LogToFile {
		t.Error("LogToFile: got false, want true")
	}
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config
	if want := filepath.Join(home, ".tasklist"); cfg.DataDir != want {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, want)
	}
	if want := filepath.Join(home, ".tasklist", "logs"); cfg.LogDir != want {
		t.Errorf("LogDir: got %q, want %q", cfg.LogDir, want)
	}
	if len(cws.Files) != 0 {
		t.Errorf("Files: got %v, want none", cws.Files)
	}
	for _, field := range configFields() {
		if cws.Sources[field] != SourceDefault {
			t.Errorf("Sources[%s]: got %q, want default", field, cws.Sources[field])
		}
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TASKLIST_STORAGE", "sqlite")
	t.Setenv("TASKLIST_SLOT", "work")
	t.Setenv("TASKLIST_THEME", "dark")
	t.Setenv("TASKLIST_LOG_FILE", "off")
	t.Setenv("TASKLIST_LOG_CALLER", "yes")

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	loadFromEnv(cfg, sources)

	if cfg.Storage != "sqlite" {
		t.Errorf("Storage: got %q, want sqlite", cfg.Storage)
	}
	if cfg.Slot != "work" {
		t.Errorf("Slot: got %q, want work", cfg.Slot)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme: got %q, want dark", cfg.Theme)
	}
	if cfg.LogToFile {
		t.Error("LogToFile: got true, want false")
	}
	if !cfg.LogCaller {
		t.Error("LogCaller: got false, want true")
	}
	if sources["slot"] != SourceEnv {
		t.Errorf("Sources[slot]: got %q, want environment", sources["slot"])
	}
	if _, ok := sources["data_dir"]; ok {
		t.Error("Sources[data_dir] should not be set")
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "tasklist.toml")
	writeFile(t, configFile, `storage = "sqlite"
db_file = "tasks.db"
slot = "home"
log_to_file = false
`)

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	if err := loadConfigFile(cfg, configFile, sources, SourceProjFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.Storage != "sqlite" {
		t.Errorf("Storage: got %q, want sqlite", cfg.Storage)
	}
	if cfg.DBFile != "tasks.db" {
		t.Errorf("DBFile: got %q, want tasks.db", cfg.DBFile)
	}
	if cfg.LogToFile {
		t.Error("LogToFile: got true, want false")
	}
	if cfg.Theme != DefaultTheme {
		t.Errorf("Theme: got %q, want default", cfg.Theme)
	}
	if sources["log_to_file"] != SourceProjFile {
		t.Errorf("Sources[log_to_file]: got %q, want project file", sources["log_to_file"])
	}
	if _, ok := sources["theme"]; ok {
		t.Error("Sources[theme] should not be set")
	}
}

func TestLoadConfigFileInvalid(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "tasklist.toml")
	writeFile(t, configFile, "storage = \n")

	cfg := &Config{}
	if err := loadConfigFile(cfg, configFile, nil, SourceProjFile); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}

func TestLoadPrecedence(t *testing.T) {
	home := isolate(t)

	writeFile(t, filepath.Join(home, ".tasklist", "tasklist.toml"), `slot = "user"
theme = "dark"
log_level = "warn"
default_filter = "completed"
`)
	writeFile(t, "tasklist.toml", `slot = "project"
log_level = "debug"
`)
	explicit := filepath.Join(t.TempDir(), "explicit.toml")
	writeFile(t, explicit, `log_level = "error"
`)
	t.Setenv("TASKLIST_CONFIG", explicit)
	t.Setenv("TASKLIST_FILTER", "pending")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"-theme", "light"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	checks := []struct {
		field  string
		got    string
		want   string
		source ConfigSource
	}{
		{"slot", cfg.Slot, "project", SourceProjFile},
		{"theme", cfg.Theme, "light", SourceFlag},
		{"log_level", cfg.LogLevel, "error", SourceEnvFile},
		{"default_filter", cfg.DefaultFilter, "pending", SourceEnv},
		{"storage", cfg.Storage, DefaultStorage, SourceDefault},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %q, want %q", c.field, c.got, c.want)
		}
		if cws.Sources[c.field] != c.source {
			t.Errorf("Sources[%s]: got %q, want %q", c.field, cws.Sources[c.field], c.source)
		}
	}
	if len(cws.Files) != 3 {
		t.Fatalf("Files: got %v, want 3 entries", cws.Files)
	}
	if cws.ConfigFile() != explicit {
		t.Errorf("ConfigFile: got %q, want %q", cws.ConfigFile(), explicit)
	}
}

func TestLoadXDGUserConfig(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is Linux/BSD only")
	}
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "tasklist", "tasklist.toml"), `slot = "xdg"
`)

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	if cws.Config.Slot != "xdg" {
		t.Errorf("Slot: got %q, want xdg", cws.Config.Slot)
	}
	if cws.Sources["slot"] != SourceUserFile {
		t.Errorf("Sources[slot]: got %q, want user file", cws.Sources["slot"])
	}
}

func TestLoadMissingExplicitConfig(t *testing.T) {
	isolate(t)
	t.Setenv("TASKLIST_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	if _, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil); err == nil {
		t.Fatal("expected error for missing TASKLIST_CONFIG file")
	}
}

func TestLoadNormalizesAndValidates(t *testing.T) {
	isolate(t)

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-storage", " SQLite ", "-theme", "DARK", "-slot", " Work "})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage != "sqlite" {
		t.Errorf("Storage: got %q, want sqlite", cfg.Storage)
	}
	if cfg.Theme != ThemeDark {
		t.Errorf("Theme: got %q, want dark", cfg.Theme)
	}
	if cfg.Slot != "work" {
		t.Errorf("Slot: got %q, want work", cfg.Slot)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"storage", []string{"-storage", "redis"}, "storage"},
		{"theme", []string{"-theme", "blue"}, "theme"},
		{"filter", []string{"-filter", "all"}, "default_filter"},
		{"slot", []string{"-slot", "  "}, "slot"},
		{"log level", []string{"-log-level", "loud"}, "log_level"},
		{"log format", []string{"-log-format", "xml"}, "log_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), tt.args)
			if err == nil {
				t.Fatalf("Load(%v): expected error", tt.args)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestStorageLocation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"file", Config{Storage: "file", DataDir: "/data"}, "/data"},
		{"sqlite relative", Config{Storage: "sqlite", DataDir: "/data", DBFile: "t.db"}, filepath.Join("/data", "t.db")},
		{"sqlite absolute", Config{Storage: "sqlite", DataDir: "/data", DBFile: "/elsewhere/t.db"}, "/elsewhere/t.db"},
		{"memory", Config{Storage: "memory", DataDir: "/data"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.StorageLocation(); got != tt.want {
				t.Errorf("StorageLocation: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"", ""},
	}
	if runtime.GOOS == "windows" {
		t.Setenv("TASKLIST_TEST_HOME", home)
		tests = append(tests, struct {
			input string
			want  string
		}{
			input: `%TASKLIST_TEST_HOME%\data`,
			want:  filepath.Join(home, "data"),
		})
	} else {
		tests = append(tests, struct {
			input string
			want  string
		}{
			input: `~\test`,
			want:  `~\test`,
		})
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"--storage", "memory",
		"--slot", "errands",
		"--log-file=false",
		"--log-format", "json",
		"rest",
	}
	sources := map[string]ConfigSource{}
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.Storage != "memory" {
		t.Errorf("Storage: got %q, want memory", cfg.Storage)
	}
	if cfg.Slot != "errands" {
		t.Errorf("Slot: got %q, want errands", cfg.Slot)
	}
	if cfg.LogToFile {
		t.Error("LogToFile: got true, want false")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: got %q, want json", cfg.LogFormat)
	}
	if sources["log_to_file"] != SourceFlag {
		t.Errorf("Sources[log_to_file]: got %q, want flag", sources["log_to_file"])
	}
	if got := fs.Args(); len(got) != 1 || got[0] != "rest" {
		t.Errorf("Args: got %v, want [rest]", got)
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{" on ", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := boolFromString(tt.input)
			if got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	cfg := &Config{}
	md, err := toml.Decode(ExampleConfig(), cfg)
	if err != nil {
		t.Fatalf("decode example: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		t.Errorf("example has unknown keys: %v", undecoded)
	}
	for _, field := range configFields() {
		if !md.IsDefined(field) {
			t.Errorf("example does not document %q", field)
		}
	}
	if err := finalizeConfig(cfg); err != nil {
		t.Errorf("example does not validate: %v", err)
	}
}
