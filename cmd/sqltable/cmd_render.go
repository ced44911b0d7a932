package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hlop3z/sqltable/internal/cache"
	"github.com/hlop3z/sqltable/internal/cli"
	"github.com/hlop3z/sqltable/internal/drift"
	"github.com/hlop3z/sqltable/internal/loader"
	"github.com/hlop3z/sqltable/internal/render"
	"github.com/hlop3z/sqltable/internal/schema"
)

// renderCmd renders table files into DDL.
func renderCmd(a *app) *cobra.Command {
	var (
		engines []string
		write   bool
		watch   bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [table.yaml...]",
		Short: "Render table files into CREATE TABLE statements",
		Long: `Render every table in the tables directory (or only the files given) for
each configured engine. DDL is printed to stdout unless --write or --out is
given, in which case it is written to <out>/<engine>/<table>.sql.`,
		Example: `  # Print DDL for every table and engine
  sqltable render

  # Only MySQL, one file
  sqltable render -e mysql tables/users.yaml

  # Write files and keep them up to date while editing
  sqltable render -o ddl --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if len(engines) > 0 {
				cfg.Engines = engines
			}

			r := &renderer{
				cfg:    cfg,
				files:  args,
				write:  write || a.outputDir != "",
				out:    cmd.OutOrStdout(),
				errOut: cmd.ErrOrStderr(),
			}

			if cfg.CacheEnabled() && !noCache {
				c, err := cache.Open(a.projectRoot())
				if err != nil {
					slog.Warn("render cache disabled", "err", err)
				} else {
					defer c.Close()
					r.cache = c
				}
			}

			err = r.run(cmd.Context())
			if !watch {
				return err
			}
			if err != nil {
				fmt.Fprint(r.errOut, cli.FormatError(err))
			}

			fmt.Fprintln(r.errOut, cli.Info("Watching for changes (Ctrl+C to stop)"))
			return watchTables(cmd.Context(), r.watchDirs(), watchDebounce, func() {
				if err := r.run(cmd.Context()); err != nil {
					fmt.Fprint(r.errOut, cli.FormatError(err))
				}
			})
		},
	}

	cmd.Flags().StringSliceVarP(&engines, "engine", "e", nil, "Target engine(s) (default from config)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write files to the output directory")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-render when table files change")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Do not read or fill the render cache")

	return cmd
}

// renderer holds what one render pass needs so --watch can repeat it.
type renderer struct {
	cfg    *Config
	files  []string
	write  bool
	cache  *cache.Cache
	out    io.Writer
	errOut io.Writer
}

func (r *renderer) run(ctx context.Context) error {
	tables, err := loadTables(r.cfg.TablesDir, r.files)
	if err != nil {
		return err
	}

	outputs, err := render.RenderAll(ctx, tables, r.cfg.Engines, render.Options{Cache: r.cache})
	if err != nil {
		return err
	}

	if !r.write {
		for _, o := range outputs {
			fmt.Fprintf(r.out, "-- %s\n%s\n\n", o.Path(), o.SQL)
		}
		return nil
	}

	written, err := render.WriteOutputs(r.cfg.OutputDir, outputs)
	if err != nil {
		return err
	}
	fmt.Fprint(r.out, cli.FormatSuccess(fmt.Sprintf("wrote %s to %s",
		cli.FormatCount(len(written), "file", "files"), r.cfg.OutputDir)))

	r.recordOutputHash(outputs)
	return nil
}

// recordOutputHash stores the hash of this pass and reports what changed
// since the previous one written to the same directory.
func (r *renderer) recordOutputHash(outputs []render.Output) {
	if r.cache == nil {
		return
	}
	hash, err := drift.ComputeOutputHash(render.Files(outputs))
	if err != nil {
		slog.Warn("cannot hash output", "err", err)
		return
	}
	dir, err := filepath.Abs(r.cfg.OutputDir)
	if err != nil {
		dir = r.cfg.OutputDir
	}

	if prev, err := r.cache.GetOutputHash(dir); err == nil && prev != nil {
		result := drift.Compare(prev, hash)
		if result.HasDrift {
			changed := len(result.Missing) + len(result.Extra) + len(result.Modified)
			fmt.Fprint(r.out, cli.FormatNote(cli.FormatCount(changed, "file changed", "files changed")+" since the last render"))
		}
	}
	if err := r.cache.SetOutputHash(dir, hash); err != nil {
		slog.Warn("cannot record output hash", "err", err)
	}
}

// watchDirs returns the directories holding the rendered table files.
func (r *renderer) watchDirs() []string {
	if len(r.files) == 0 {
		return []string{r.cfg.TablesDir}
	}
	var dirs []string
	for _, f := range r.files {
		if dir := filepath.Dir(f); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// loadTables loads the given files, or every table file in dir when none are given.
func loadTables(dir string, files []string) ([]*schema.Table, error) {
	if len(files) == 0 {
		return loader.LoadDir(dir)
	}
	var (
		tables []*schema.Table
		errs   []error
	)
	for _, f := range files {
		t, err := loader.LoadFile(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tables = append(tables, t)
	}
	return tables, errors.Join(errs...)
}
