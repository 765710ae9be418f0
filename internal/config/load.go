package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/tasklist-go/internal/utils"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.tasklist/tasklist.toml or OS-specific config dir)
// 3. Project config file (tasklist.toml or .tasklist.toml in current directory)
// 4. Config file named by TASKLIST_CONFIG
// 5. Environment variables
// 6. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cfg := &Config{}
	sources := make(map[string]ConfigSource)

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}
	cws := &ConfigWithSources{Config: cfg, Sources: sources}

	// 2-4. Config files, later files override earlier ones
	layers := []struct {
		path   string
		source ConfigSource
	}{
		{findUserConfigFile(), SourceUserFile},
		{findProjectConfigFile(), SourceProjFile},
		{os.Getenv("TASKLIST_CONFIG"), SourceEnvFile},
	}
	for _, layer := range layers {
		if layer.path == "" {
			continue
		}
		path := expandPath(layer.path)
		if err := loadConfigFile(cfg, path, sources, layer.source); err != nil {
			return nil, fmt.Errorf("loading %s %s: %w", layer.source, path, err)
		}
		cws.Files = append(cws.Files, path)
	}

	// 5. Override from environment
	loadFromEnv(cfg, sources)

	// 6. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 7. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cws, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"storage",
		"data_dir",
		"db_file",
		"slot",
		"theme",
		"default_filter",
		"log_dir",
		"log_to_file",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// loadConfigFile decodes TOML config from path on top of cfg and records
// the keys it defined.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if sources == nil {
		return nil
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	return nil
}

// finalizeConfig normalizes values, expands paths and validates the result.
func finalizeConfig(cfg *Config) error {
	cfg.Storage = utils.NormalizeName(cfg.Storage)
	cfg.Slot = utils.NormalizeName(cfg.Slot)
	cfg.Theme = utils.NormalizeName(cfg.Theme)
	cfg.DefaultFilter = utils.NormalizeName(cfg.DefaultFilter)
	cfg.LogLevel = utils.NormalizeName(cfg.LogLevel)
	cfg.LogFormat = utils.NormalizeName(cfg.LogFormat)

	// Expand ~ in paths
	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.DBFile = expandPath(cfg.DBFile)

	// Make directories absolute if they're relative
	for _, p := range []*string{&cfg.DataDir, &cfg.LogDir} {
		if *p == "" || filepath.IsAbs(*p) {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", *p, err)
		}
		*p = abs
	}

	return cfg.Validate()
}
