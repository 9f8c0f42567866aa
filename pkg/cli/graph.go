/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/m8s-dev/m8s/pkg/graph"
)

func graphCmd() *cli.Command {
	flags := configFlags()
	flags = append(flags, &cli.StringFlag{
		Name:    "group",
		Aliases: []string{"g"},
		Usage:   "colon separated path of the group to draw (default: root units)",
	})

	return &cli.Command{
		Name:                  "graph",
		EnableShellCompletion: true,
		Usage:                 "Print the dependency graph of a scope in Graphviz DOT format",
		Description: `Edges point from a dependency to the unit that depends on it. Groups are
drawn as boxes; use --group to draw the units inside one.

Example:
  m8s graph --group monitoring | dot -Tsvg > monitoring.svg`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(ctx, cmd)
			if err != nil {
				return err
			}

			group := cmd.String("group")
			units, err := cfg.Scope(group)
			if err != nil {
				return err
			}

			label := name
			if group != "" {
				label = group
			}
			return graph.WriteDOT(cmd.Root().Writer, label, units)
		},
	}
}
