/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/m8s-dev/m8s/pkg/errors"
	"github.com/m8s-dev/m8s/pkg/logging"
)

const name = "m8s"

var (
	// Set at build time with -ldflags.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func init() {
	// -v is taken by --debug.
	cli.VersionFlag = &cli.BoolFlag{
		Name:        "version",
		Usage:       "print the version",
		HideDefault: true,
		Local:       true,
	}
}

// Execute runs the command line and exits with status 1 on failure.
func Execute() {
	if err := newRootCmd().Run(context.Background(), os.Args); err != nil {
		slog.Error("m8s failed", errors.LogAttrs(err)...)
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "What if helm, kubectl and others were roommates",
		Version:               fmt.Sprintf("%s (commit: %s, date: %s)", version, commit, date),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"verbose", "v"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "output logs in JSON format",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLogger(name, version, logLevel(cmd), logFormat(cmd))
			slog.Debug("starting", "name", name, "version", version, "commit", commit)
			return ctx, nil
		},
		Action: commandLister,
		Commands: []*cli.Command{
			upCmd(),
			planCmd(),
			graphCmd(),
		},
	}
}

func logLevel(cmd *cli.Command) string {
	if cmd.Bool("debug") {
		return "debug"
	}
	return cmd.String("log-level")
}

func logFormat(cmd *cli.Command) logging.Format {
	if cmd.Bool("log-json") {
		return logging.FormatJSON
	}
	return logging.FormatText
}

// commandLister prints the visible subcommands of cmd.
func commandLister(_ context.Context, cmd *cli.Command) error {
	if cmd == nil {
		return nil
	}

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	for _, c := range cmd.Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintf(w, "%-8s %s\n", c.Name, c.Usage)
	}
	return nil
}
