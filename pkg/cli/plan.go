/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"io"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/m8s-dev/m8s/pkg/errors"
	"github.com/m8s-dev/m8s/pkg/executor"
	"github.com/m8s-dev/m8s/pkg/header"
	"github.com/m8s-dev/m8s/pkg/runner"
	"github.com/m8s-dev/m8s/pkg/unit"
)

// Plan is the ordered list of commands an up run would execute.
type Plan struct {
	header.Header `yaml:",inline"`

	Config           string     `json:"config" yaml:"config"`
	Digest           string     `json:"digest" yaml:"digest"`
	HelmRepositories []string   `json:"helmRepositories,omitempty" yaml:"helmRepositories,omitempty"`
	Steps            []PlanStep `json:"steps" yaml:"steps"`
}

// PlanStep is one unit in execution order. Command is empty for noop units.
type PlanStep struct {
	Unit    string `json:"unit" yaml:"unit"`
	Type    string `json:"type" yaml:"type"`
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
}

func planCmd() *cli.Command {
	flags := configFlags()
	flags = append(flags, switchFlags("dependencies", "include the dependencies of UNITS")...)
	flags = append(flags, outputFlags()...)

	return &cli.Command{
		Name:                  "plan",
		EnableShellCompletion: true,
		Usage:                 "Print the commands up would run, in order",
		ArgsUsage:             "[UNITS...]",
		Description: `Validates the deployment file and walks the selected units exactly like
up --dry-run, printing every unit with the command it maps to. Helm units
are always shown with install, since no cluster is consulted.`,
		Flags:  flags,
		Action: runPlan,
	}
}

func runPlan(ctx context.Context, cmd *cli.Command) error {
	units := cmd.Args().Slice()
	deps, err := dependenciesValue(cmd, units)
	if err != nil {
		return err
	}

	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}

	plan, err := buildPlan(ctx, cfg, units, deps)
	if err != nil {
		return err
	}

	ser, closeFn, err := serializerFor(cmd, outFormat)
	if err != nil {
		return err
	}
	defer closeFn()

	return ser.Serialize(ctx, plan)
}

// buildPlan runs the executor against a dry-run runner and records every
// non-group step.
func buildPlan(ctx context.Context, cfg *unit.Config, units []string, deps bool) (*Plan, error) {
	plan := &Plan{
		Header: header.New("Plan", header.WithVersion(version), header.WithTimestamp(time.Now())),
		Config: cfg.Path,
		Digest: cfg.Digest,
		Steps:  []PlanStep{},
	}

	for _, repo := range cfg.HelmRepositories {
		plan.HelmRepositories = append(plan.HelmRepositories,
			runner.RepoAddCommand(repo).String(),
			runner.RepoUpdateCommand(repo).String())
	}

	record := func(step executor.Step) {
		if _, ok := step.Spec.(*unit.Group); ok {
			return
		}
		ps := PlanStep{Unit: step.Path(), Type: string(step.Spec.Type())}
		if c, ok := runner.CommandFor(step.Spec); ok {
			ps.Command = c.String()
		}
		plan.Steps = append(plan.Steps, ps)
	}

	dry := runner.New(runner.WithDryRun(true), runner.WithOutput(io.Discard, io.Discard))
	if err := executor.New(dry, executor.WithObserver(record)).Run(ctx, cfg.Units, units, deps); err != nil {
		return nil, errors.Wrap(errors.CodeOf(err, errors.ErrCodeInternal), "planning units failed", err)
	}
	return plan, nil
}
