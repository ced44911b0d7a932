package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hlop3z/sqltable/internal/cache"
	"github.com/hlop3z/sqltable/internal/cli"
)

// cacheCmd manages the local render cache.
func cacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local render cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached render",
			RunE: func(cmd *cobra.Command, args []string) error {
				if !cache.Exists(a.projectRoot()) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty.")
					return nil
				}
				c, err := cache.Open(a.projectRoot())
				if err != nil {
					return err
				}
				defer c.Close()

				if err := c.Clear(); err != nil {
					return err
				}
				if err := c.Vacuum(); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), cli.FormatSuccess("cache cleared"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache database path",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(a.projectRoot(), cache.CacheDir, cache.CacheFile))
				return nil
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show cache statistics",
			RunE: func(cmd *cobra.Command, args []string) error {
				if !cache.Exists(a.projectRoot()) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty.")
					return nil
				}
				c, err := cache.Open(a.projectRoot())
				if err != nil {
					return err
				}
				defer c.Close()

				stats, err := c.GetStats()
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.FormatKeyValue("path", c.Path()))
				fmt.Fprintln(out, cli.FormatKeyValue("renders", fmt.Sprint(stats.Renders)))
				fmt.Fprintln(out, cli.FormatKeyValue("engines", fmt.Sprint(stats.Engines)))
				fmt.Fprintln(out, cli.FormatKeyValue("output hashes", fmt.Sprint(stats.OutputHashes)))
				fmt.Fprintln(out, cli.FormatKeyValue("size", fmt.Sprintf("%d bytes", stats.DatabaseSize)))
				return nil
			},
		},
	)

	return cmd
}
