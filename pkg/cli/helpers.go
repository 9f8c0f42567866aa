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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/m8s-dev/m8s/pkg/defaults"
	"github.com/m8s-dev/m8s/pkg/errors"
	"github.com/m8s-dev/m8s/pkg/serializer"
	"github.com/m8s-dev/m8s/pkg/unit"
	"github.com/m8s-dev/m8s/pkg/validator"
)

// configFlags are the flags every command that reads a configuration file
// accepts.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Value:   defaults.ConfigFileName,
			Usage:   "path to the deployment file in YAML format",
			Sources: cli.EnvVars("M8S_FILE"),
		},
		&cli.StringFlag{
			Name:    "directory",
			Aliases: []string{"C"},
			Usage:   "change to `DIRECTORY` before doing anything",
		},
	}
}

// switchFlags returns the --name/--no-name pair of a boolean that
// defaults to true.
func switchFlags(name, usage string) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: name, Usage: usage},
		&cli.BoolFlag{Name: "no-" + name, Usage: "disable --" + name},
	}
}

// switchValue resolves a --name/--no-name pair. Passing both is a usage error.
func switchValue(cmd *cli.Command, name string) (bool, error) {
	on, off := cmd.Bool(name), cmd.Bool("no-"+name)
	if on && off {
		return false, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("options --%s and --no-%s cannot be used together", name, name))
	}
	return !off, nil
}

// dependenciesValue resolves --[no-]dependencies, which only applies to
// named units.
func dependenciesValue(cmd *cli.Command, units []string) (bool, error) {
	if (cmd.Bool("dependencies") || cmd.Bool("no-dependencies")) && len(units) == 0 {
		return false, errors.New(errors.ErrCodeInvalidRequest,
			"option --dependencies/--no-dependencies only works when you pass argument UNITS too")
	}
	return switchValue(cmd, "dependencies")
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output file path (default: stdout)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"t"},
			Value:   string(serializer.FormatYAML),
			Usage:   fmt.Sprintf("output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
		},
	}
}

// parseOutputFormat extracts and validates the output format from CLI flags.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown output format: %q, valid formats are: %s",
				outFormat, strings.Join(serializer.SupportedFormats(), ", ")))
	}
	return outFormat, nil
}

// loadConfig changes to --directory, then loads and validates --file.
func loadConfig(ctx context.Context, cmd *cli.Command) (*unit.Config, error) {
	if dir := cmd.String("directory"); dir != "" {
		if err := os.Chdir(dir); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("unable to change to directory %q", dir), err)
		}
		slog.Debug("changed directory", "directory", dir)
	}

	cfg, err := unit.Load(cmd.String("file"))
	if err != nil {
		return nil, err
	}

	if err := validator.New().Validate(ctx, cfg); err != nil {
		return nil, errors.Wrap(errors.CodeOf(err, errors.ErrCodeInvalidConfig),
			"validating configuration failed", err)
	}
	return cfg, nil
}

// serializerFor returns a serializer for --output, writing to the command's
// writer when no file is given. The returned func closes the output.
func serializerFor(cmd *cli.Command, format serializer.Format) (serializer.Serializer, func(), error) {
	path := strings.TrimSpace(cmd.String("output"))
	if path == "" || path == serializer.StdoutURI {
		return serializer.NewWriter(format, cmd.Root().Writer), func() {}, nil
	}

	ser, err := serializer.NewFileWriterOrStdout(format, path)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidRequest, "unable to open output", err)
	}
	return ser, func() {
		if c, ok := ser.(serializer.Closer); ok {
			if err := c.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}
	}, nil
}
