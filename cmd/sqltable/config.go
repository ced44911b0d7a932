package main

import (
	"errors"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/sqltable/internal/alerr"
	"github.com/hlop3z/sqltable/internal/dialect"
	"github.com/hlop3z/sqltable/internal/lockfile"
)

// Config represents the sqltable.yaml configuration file.
type Config struct {
	TablesDir string   `yaml:"tables_dir"`
	OutputDir string   `yaml:"output_dir"`
	Engines   []string `yaml:"engines"`
	LockFile  string   `yaml:"lock_file"`
	Cache     *bool    `yaml:"cache"`
}

// Defaults for a config file that leaves a key out.
const (
	defaultTablesDir = "./tables"
	defaultOutputDir = "./ddl"
)

var defaultEngines = []string{"clickhouse", "mysql"}

// flagOverrides holds command-line values; empty strings are unset.
type flagOverrides struct {
	TablesDir string
	OutputDir string
}

// CacheEnabled reports whether the render cache is on (default true).
func (c *Config) CacheEnabled() bool {
	return c.Cache == nil || *c.Cache
}

// loadConfig loads configuration from file, env vars, and CLI flags.
// Precedence: CLI flags > env vars > config file > defaults.
// A missing config file is not an error.
func loadConfig(path string, flags flagOverrides) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, alerr.Wrap(alerr.ErrConfigInvalid, err, "failed to parse config file").
				WithFile(path)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, alerr.Wrap(alerr.ErrConfigInvalid, err, "failed to read config file").
			WithFile(path)
	}

	if cfg.TablesDir == "" {
		cfg.TablesDir = defaultTablesDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir
	}
	if cfg.LockFile == "" {
		cfg.LockFile = lockfile.DefaultPath()
	}
	if len(cfg.Engines) == 0 {
		cfg.Engines = append([]string(nil), defaultEngines...)
	}

	if v := os.Getenv("SQLTABLE_TABLES_DIR"); v != "" {
		cfg.TablesDir = v
	}
	if v := os.Getenv("SQLTABLE_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}

	if flags.TablesDir != "" {
		cfg.TablesDir = flags.TablesDir
	}
	if flags.OutputDir != "" {
		cfg.OutputDir = flags.OutputDir
	}

	cfg.TablesDir = expandEnvVars(cfg.TablesDir)
	cfg.OutputDir = expandEnvVars(cfg.OutputDir)
	cfg.LockFile = expandEnvVars(cfg.LockFile)

	for i, name := range cfg.Engines {
		d, err := dialect.Get(name)
		if err != nil {
			var ae *alerr.Error
			if errors.As(err, &ae) {
				ae.WithFile(path).With("key", "engines")
			}
			return nil, err
		}
		cfg.Engines[i] = d.Name()
	}

	return cfg, nil
}

// expandEnvVars expands ${VAR} patterns in a string.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return os.Expand(s, os.Getenv)
}

// defaultConfigYAML is written by "sqltable init".
const defaultConfigYAML = `# sqltable.yaml
tables_dir: ./tables
output_dir: ./ddl
engines:
  - clickhouse
  - mysql
lock_file: sqltable.lock
cache: true
`
