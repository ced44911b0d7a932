// Package render turns loaded tables into DDL for several engines at once.
package render

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hlop3z/sqltable/internal/alerr"
	"github.com/hlop3z/sqltable/internal/cache"
	"github.com/hlop3z/sqltable/internal/dialect"
	"github.com/hlop3z/sqltable/internal/drift"
	"github.com/hlop3z/sqltable/internal/schema"
)

// Output is the DDL of one table for one engine.
type Output struct {
	Table  string
	Engine string
	SQL    string
	Cached bool
}

// Path returns the slash-separated path of the output relative to the
// output directory: <engine>/<table>.sql.
func (o Output) Path() string {
	return path.Join(o.Engine, o.Table+".sql")
}

// Content returns the file content written for the output.
func (o Output) Content() string {
	return o.SQL + "\n"
}

// Options configures RenderAll.
type Options struct {
	// Cache, when set, is consulted before rendering and filled after.
	Cache *cache.Cache
	// Concurrency bounds the number of renders in flight. Zero means GOMAXPROCS.
	Concurrency int
	// Logger receives debug events. Nil means slog.Default().
	Logger *slog.Logger
}

// RenderAll renders every table for every engine. Outputs are ordered by
// table then engine, in the order given. A failing pair does not stop the
// others: the outputs that succeeded are returned together with every
// failure joined into one error.
func RenderAll(ctx context.Context, tables []*schema.Table, engines []string, opts Options) ([]Output, error) {
	dialects := make([]dialect.Dialect, len(engines))
	for i, name := range engines {
		d, err := dialect.Get(name)
		if err != nil {
			return nil, err
		}
		dialects[i] = d
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	n := len(tables) * len(dialects)
	results := make([]Output, n)
	errs := make([]error, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for ti, t := range tables {
		fingerprint := drift.TableFingerprint(t)
		for di, d := range dialects {
			i := ti*len(dialects) + di
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i], errs[i] = renderOne(t, d, fingerprint, opts.Cache, logger)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	outputs := make([]Output, 0, n)
	for i := range results {
		if errs[i] == nil {
			outputs = append(outputs, results[i])
		}
	}
	return outputs, errors.Join(errs...)
}

func renderOne(t *schema.Table, d dialect.Dialect, fingerprint string, c *cache.Cache, logger *slog.Logger) (Output, error) {
	out := Output{Table: t.Name, Engine: d.Name()}

	ddl, hit, err := c.GetOrRender(d.Name(), fingerprint, t.Name, func() (string, error) {
		return d.CreateTableSQL(t)
	})
	if alerr.Is(err, alerr.ErrCacheRead) {
		// A broken cache only costs a re-render.
		logger.Warn("render cache unreadable", "table", t.Name, "engine", d.Name(), "err", err)
		hit = false
		ddl, err = d.CreateTableSQL(t)
	}
	if err != nil {
		return out, err
	}

	if hit {
		logger.Debug("render cache hit", "table", t.Name, "engine", d.Name())
	} else if c != nil {
		logger.Debug("render cache miss", "table", t.Name, "engine", d.Name())
	}

	out.SQL = ddl
	out.Cached = hit
	return out, nil
}

// Files maps each output's relative path to its file content.
func Files(outputs []Output) map[string]string {
	files := make(map[string]string, len(outputs))
	for _, o := range outputs {
		files[o.Path()] = o.Content()
	}
	return files
}

// WriteOutputs writes each output to <dir>/<engine>/<table>.sql and returns
// the relative paths written, sorted.
func WriteOutputs(dir string, outputs []Output) ([]string, error) {
	written := make([]string, 0, len(outputs))
	for _, o := range outputs {
		rel := o.Path()
		full := filepath.Join(dir, filepath.FromSlash(rel))

		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return nil, alerr.Wrap(alerr.ErrOutputWrite, err, "failed to create output directory").
				With("path", filepath.Dir(full))
		}
		if err := os.WriteFile(full, []byte(o.Content()), 0o644); err != nil {
			return nil, alerr.Wrap(alerr.ErrOutputWrite, err, "failed to write DDL file").
				WithFile(full).
				WithTable(o.Table)
		}
		slog.Debug("wrote DDL", "path", full, "engine", o.Engine, "table", o.Table)
		written = append(written, rel)
	}
	sort.Strings(written)
	return written, nil
}
