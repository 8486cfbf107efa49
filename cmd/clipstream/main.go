// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command clipstream runs the Clipstream account API and its schema migrations.
//
// # Commands
//
//	clipstream                 Same as 'clipstream serve'.
//	clipstream serve           Start the HTTP API server.
//	clipstream migrate up      Apply all pending migrations.
//	clipstream migrate down N  Roll back N migrations.
//	clipstream migrate version Print the current schema version.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/clipstream/internal/platform/constants"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()

	cmd := &cobra.Command{
		Use:           "clipstream",
		Short:         "Clipstream account and session API",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	cmd.AddCommand(serve)
	cmd.AddCommand(newMigrateCommand())
	return cmd
}

// newLogger builds the process logger with the global app attribute.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With(slog.String("app", constants.AppName), slog.String("version", constants.AppVersion))

	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
