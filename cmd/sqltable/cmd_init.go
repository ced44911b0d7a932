package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hlop3z/sqltable/internal/alerr"
	"github.com/hlop3z/sqltable/internal/schema"
)

// initCmd creates sqltable.yaml and a starter table file.
func initCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize project structure (creates sqltable.yaml and tables/)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if err := writeIfMissing(out, a.configFile, []byte(defaultConfigYAML)); err != nil {
				return err
			}

			cfg, err := a.config()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.TablesDir, 0o755); err != nil {
				return alerr.Wrap(alerr.ErrOutputWrite, err, "failed to create tables directory").
					With("dir", cfg.TablesDir)
			}

			table := schema.DefaultTable()
			data, err := yaml.Marshal(table)
			if err != nil {
				return alerr.Wrap(alerr.EInternalError, err, "failed to encode starter table")
			}
			return writeIfMissing(out, filepath.Join(cfg.TablesDir, table.Name+".yaml"), data)
		},
	}
}

// writeIfMissing writes data to path unless the file already exists.
func writeIfMissing(out io.Writer, path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "Exists  %s\n", path)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return alerr.Wrap(alerr.ErrOutputWrite, err, "cannot stat file").WithFile(path)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return alerr.Wrap(alerr.ErrOutputWrite, err, "failed to create file").WithFile(path)
	}
	fmt.Fprintf(out, "Created %s\n", path)
	return nil
}
