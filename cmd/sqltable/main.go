// Package main provides the sqltable CLI.
// sqltable renders yaml table descriptions into CREATE TABLE statements for
// ClickHouse and MySQL.
//
// Usage:
//
//	sqltable init                 # Create sqltable.yaml and tables/my_table.yaml
//	sqltable render [files...]    # Print DDL (or --write it to the output dir)
//	sqltable check                # Validate every table against every engine
//	sqltable types                # Show how each field type maps per engine
//	sqltable lock                 # Record checksums of the rendered DDL
//	sqltable verify               # Compare the output dir against the lock file
//	sqltable cache clear|path|stats
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hlop3z/sqltable/internal/cli"
)

// version is set via ldflags during build: -ldflags="-X main.version=v1.0.0"
var version = "dev"

// app carries the global flags shared by every command.
type app struct {
	configFile string
	tablesDir  string
	outputDir  string
	verbose    bool
	noColor    bool
}

// projectRoot is the directory holding the config file; the cache lives there.
func (a *app) projectRoot() string {
	return filepath.Dir(a.configFile)
}

// config loads the configuration with the global flag overrides applied.
func (a *app) config() (*Config, error) {
	return loadConfig(a.configFile, flagOverrides{
		TablesDir: a.tablesDir,
		OutputDir: a.outputDir,
	})
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "sqltable",
		Short:         "Render yaml table descriptions into engine DDL",
		Long:          `sqltable turns dialect-neutral yaml table descriptions into CREATE TABLE statements for ClickHouse and MySQL.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			if a.noColor {
				cli.SetDefault(&cli.Config{Mode: cli.ModePlain, Writer: cmd.OutOrStdout()})
			}
		},
	}

	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "sqltable.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&a.tablesDir, "tables", "t", "", "Directory of table files (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&a.outputDir, "out", "o", "", "Output directory for rendered DDL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	// Accept --no_cache as well as --no-cache.
	rootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.AddCommand(
		initCmd(a),
		renderCmd(a),
		checkCmd(a),
		typesCmd(a),
		lockCmd(a),
		verifyCmd(a),
		cacheCmd(a),
	)

	return rootCmd
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprint(stderr, cli.FormatError(err))
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
