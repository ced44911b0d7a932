package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlop3z/sqltable/internal/alerr"
	"github.com/hlop3z/sqltable/internal/cli"
	"github.com/hlop3z/sqltable/internal/drift"
	"github.com/hlop3z/sqltable/internal/lockfile"
)

// lockCmd records checksums of the rendered DDL.
func lockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Record checksums of the rendered DDL in the lock file",
		Long: `Hash every .sql file under the output directory and write the checksums and
their merkle root to the lock file. Commit the lock file so 'sqltable verify'
can detect hand edits and stale output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}

			if err := lockfile.Write(cfg.OutputDir, cfg.LockFile); err != nil {
				return err
			}
			lf, err := lockfile.Read(cfg.LockFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, cli.FormatSuccess(fmt.Sprintf("locked %s in %s",
				cli.FormatCount(len(lf.Entries), "file", "files"), cfg.LockFile)))
			fmt.Fprintln(out, cli.FormatKeyValue("root", lf.Aggregate))
			return nil
		},
	}
}

// verifyCmd compares the output directory with the lock file.
func verifyCmd(a *app) *cobra.Command {
	var quick bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare the output directory against the lock file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}

			result, err := lockfile.Verify(cfg.OutputDir, cfg.LockFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if quick {
				fmt.Fprintln(out, drift.FormatQuickStatus(result))
			} else {
				fmt.Fprint(out, drift.FormatResult(result))
			}

			if !result.HasDrift {
				return nil
			}
			return alerr.New(alerr.ErrLockMismatch, drift.FormatSummary(result)).
				WithFile(cfg.LockFile).
				WithHelp("run 'sqltable render --write && sqltable lock' if the change is intended")
		},
	}

	cmd.Flags().BoolVarP(&quick, "quick", "q", false, "Print a one-line status")

	return cmd
}
