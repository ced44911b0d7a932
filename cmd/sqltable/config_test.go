package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hlop3z/sqltable/internal/alerr"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sqltable.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), flagOverrides{})
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	want := &Config{
		TablesDir: "./tables",
		OutputDir: "./ddl",
		Engines:   []string{"clickhouse", "mysql"},
		LockFile:  "sqltable.lock",
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
	if !cfg.CacheEnabled() {
		t.Error("cache should default to on")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, "tables_dir: schema\noutput_dir: out\nengines: [MySQL, es]\nlock_file: x.lock\ncache: false\n")

	cfg, err := loadConfig(path, flagOverrides{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TablesDir != "schema" || cfg.OutputDir != "out" || cfg.LockFile != "x.lock" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Engines, []string{"mysql", "elasticsearch"}) {
		t.Errorf("Engines = %v, want canonical names", cfg.Engines)
	}
	if cfg.CacheEnabled() {
		t.Error("cache: false should disable the cache")
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := writeConfig(t, "tables_dir: from-file\noutput_dir: from-file\n")
	t.Setenv("SQLTABLE_TABLES_DIR", "from-env")
	t.Setenv("SQLTABLE_OUTPUT_DIR", "from-env")

	cfg, err := loadConfig(path, flagOverrides{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TablesDir != "from-env" || cfg.OutputDir != "from-env" {
		t.Errorf("env should beat file: %+v", cfg)
	}

	cfg, err = loadConfig(path, flagOverrides{TablesDir: "from-flag"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TablesDir != "from-flag" || cfg.OutputDir != "from-env" {
		t.Errorf("flag should beat env: %+v", cfg)
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("PROJECT", "/srv/app")
	path := writeConfig(t, "tables_dir: ${PROJECT}/tables\noutput_dir: $PROJECT/ddl\nlock_file: ${PROJECT}/sqltable.lock\n")

	cfg, err := loadConfig(path, flagOverrides{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TablesDir != "/srv/app/tables" || cfg.OutputDir != "/srv/app/ddl" || cfg.LockFile != "/srv/app/sqltable.lock" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    alerr.Code
	}{
		{"bad yaml", "tables_dir: [", alerr.ErrConfigInvalid},
		{"wrong type", "engines: mysql\n", alerr.ErrConfigInvalid},
		{"unknown engine", "engines: [mysql, postgres]\n", alerr.EUnsupportedDialect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := loadConfig(path, flagOverrides{})
			if !alerr.Is(err, tt.code) {
				t.Fatalf("loadConfig() = %v, want %v", err, tt.code)
			}
			if err.(*alerr.Error).GetContext()["file"] != path {
				t.Errorf("error should name the config file: %v", err)
			}
		})
	}
}
