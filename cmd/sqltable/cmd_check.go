package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlop3z/sqltable/internal/alerr"
	"github.com/hlop3z/sqltable/internal/cli"
	"github.com/hlop3z/sqltable/internal/dialect"
	"github.com/hlop3z/sqltable/internal/loader"
	"github.com/hlop3z/sqltable/internal/render"
	"github.com/hlop3z/sqltable/internal/schema"
)

// checkCmd validates every table file against every configured engine.
func checkCmd(a *app) *cobra.Command {
	var engines []string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate table files and report every problem",
		Long: `Load every table file, parse every field type and try every configured
engine. All problems are reported, not just the first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if len(engines) > 0 {
				cfg.Engines = engines
			}

			tables, loadErr := loader.LoadDir(cfg.TablesDir)
			if alerr.Is(loadErr, alerr.ErrSchemaNotFound) && len(tables) == 0 {
				return loadErr
			}

			// Syntax errors are engine independent; report them once and
			// only send clean tables to the renderers.
			var (
				clean   []*schema.Table
				typeErr []error
			)
			for _, t := range tables {
				if err := dialect.CheckFieldTypes(t); err != nil {
					typeErr = append(typeErr, err)
					continue
				}
				clean = append(clean, t)
			}

			outputs, renderErr := render.RenderAll(cmd.Context(), clean, cfg.Engines, render.Options{})
			if alerr.Is(renderErr, alerr.EUnsupportedDialect) {
				return renderErr
			}

			out := cmd.OutOrStdout()
			list := cli.NewList()
			for _, o := range outputs {
				list.AddSuccess(fmt.Sprintf("%s %s", o.Table, cli.Engine(o.Engine)))
			}
			fmt.Fprint(out, list.String())

			all := errors.Join(loadErr, errors.Join(typeErr...), renderErr)
			if all == nil {
				fmt.Fprint(out, cli.FormatSuccess(fmt.Sprintf("%s checked against %s",
					cli.FormatCount(len(tables), "table", "tables"),
					cli.FormatCount(len(cfg.Engines), "engine", "engines"))))
				return nil
			}

			n := len(cli.Flatten(all))
			fmt.Fprint(out, cli.FormatWarning(cli.FormatCount(n, "problem", "problems")+" found"))
			return all
		},
	}

	cmd.Flags().StringSliceVarP(&engines, "engine", "e", nil, "Engine(s) to check (default from config)")

	return cmd
}
