package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlop3z/sqltable/internal/alerr"
	"github.com/hlop3z/sqltable/internal/cli"
	"github.com/hlop3z/sqltable/internal/dialect"
	"github.com/hlop3z/sqltable/internal/fieldtype"
)

// typesCmd lists every grammar type with its rendering per engine.
func typesCmd(a *app) *cobra.Command {
	var engines []string

	cmd := &cobra.Command{
		Use:   "types",
		Short: "Show how every field type renders per engine",
		Example: `  sqltable types
  sqltable types -e mysql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(engines) == 0 {
				cfg, err := a.config()
				if err != nil {
					return err
				}
				engines = cfg.Engines
			}

			dialects := make([]dialect.Dialect, len(engines))
			headers := []string{"TYPE"}
			for i, name := range engines {
				d, err := dialect.Get(name)
				if err != nil {
					return err
				}
				dialects[i] = d
				headers = append(headers, d.Name())
			}

			table := cli.NewTable(headers...)
			for _, name := range fieldtype.Names() {
				example := typeExample(name)
				ft, err := fieldtype.Parse(example)
				if err != nil {
					return alerr.Wrap(alerr.EInternalError, err, "grammar rejects its own type name").
						With("type", example)
				}
				row := []string{example}
				for _, d := range dialects {
					row = append(row, typeCell(d, ft))
				}
				table.AddRow(row...)
			}

			fmt.Fprint(cmd.OutOrStdout(), table.String())
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&engines, "engine", "e", nil, "Engine(s) to show (default from config)")

	return cmd
}

// typeExample returns a parseable spelling of a grammar name.
func typeExample(name string) string {
	if name == fieldtype.KindArray.String() {
		return "array(int32)"
	}
	return name
}

func typeCell(d dialect.TypeMapper, ft fieldtype.Type) string {
	sql, err := d.TypeSQL(ft)
	if err != nil {
		return cli.Dim("unsupported")
	}
	return sql
}
