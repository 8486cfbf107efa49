// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taibuivan/clipstream/internal/platform/config"
	"github.com/taibuivan/clipstream/internal/platform/migration"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newMigrateUpCommand())
	cmd.AddCommand(newMigrateDownCommand())
	cmd.AddCommand(newMigrateVersionCommand())
	return cmd
}

func newMigrateUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadMigration()
			if err != nil {
				return err
			}
			return migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, newLogger(false))
		},
	}
}

func newMigrateDownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil || parsed < 1 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = parsed
			}

			cfg, err := config.LoadMigration()
			if err != nil {
				return err
			}
			return migration.RunDown(cfg.DatabaseURL, cfg.MigrationPath, steps, newLogger(false))
		},
	}
}

func newMigrateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadMigration()
			if err != nil {
				return err
			}

			status, err := migration.Version(cfg.DatabaseURL, cfg.MigrationPath, newLogger(false))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", status.Version, status.Dirty)
			return err
		},
	}
}
