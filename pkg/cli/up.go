/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"k8s.io/client-go/kubernetes"
	utilexec "k8s.io/utils/exec"

	"github.com/m8s-dev/m8s/pkg/errors"
	"github.com/m8s-dev/m8s/pkg/executor"
	"github.com/m8s-dev/m8s/pkg/k8s/client"
	"github.com/m8s-dev/m8s/pkg/runner"
	"github.com/m8s-dev/m8s/pkg/unit"
)

// upEnv holds what the up command needs from the host.
type upEnv struct {
	exec      utilexec.Interface
	stdout    io.Writer
	stderr    io.Writer
	clientset func(kubeconfig string) (kubernetes.Interface, error)
}

func hostEnv() upEnv {
	return upEnv{
		exec:   utilexec.New(),
		stdout: os.Stdout,
		stderr: os.Stderr,
		clientset: func(kubeconfig string) (kubernetes.Interface, error) {
			cs, _, err := client.BuildKubeClient(kubeconfig)
			if err != nil {
				return nil, err
			}
			return cs, nil
		},
	}
}

func upCmd() *cli.Command {
	return newUpCmd(hostEnv())
}

func newUpCmd(env upEnv) *cli.Command {
	flags := configFlags()
	flags = append(flags, &cli.StringFlag{
		Name:    "kubeconfig",
		Usage:   "path to the kubeconfig file handed to every command",
		Sources: cli.EnvVars("KUBECONFIG"),
	})
	flags = append(flags, switchFlags("helm-repositories", "add and update Helm repositories (helm repo add/update)")...)
	flags = append(flags, switchFlags("units", "run the units (kubectl apply, helm install, ...)")...)
	flags = append(flags, switchFlags("dependencies", "run units and their dependencies, requires UNITS")...)
	flags = append(flags,
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "show logs but do not actually apply changes",
		},
		&cli.BoolFlag{
			Name:  "preflight",
			Usage: "check the cluster answers before running units",
		},
	)

	return &cli.Command{
		Name:                  "up",
		EnableShellCompletion: true,
		Usage:                 "Deploy units using the current kubeconfig context",
		ArgsUsage:             "[UNITS...]",
		Description: `Validates the deployment file, adds its Helm repositories and runs
the selected units in dependency order.

UNITS are unit keys. Units nested in groups are addressed with a colon
separated path, for example monitoring:grafana. Without UNITS every
root unit runs.

Examples:
  m8s up
  m8s up cert-manager --no-dependencies
  m8s up -C deploy -f staging.yaml --dry-run`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runUp(ctx, cmd, env)
		},
	}
}

// upOptions are the parsed flags of one up run.
type upOptions struct {
	units            []string
	helmRepositories bool
	runUnits         bool
	dependencies     bool
	dryRun           bool
	preflight        bool
	kubeconfig       string
}

func parseUpOptions(cmd *cli.Command) (*upOptions, error) {
	opts := &upOptions{
		units:      cmd.Args().Slice(),
		dryRun:     cmd.Bool("dry-run"),
		preflight:  cmd.Bool("preflight"),
		kubeconfig: cmd.String("kubeconfig"),
	}

	var err error
	if opts.helmRepositories, err = switchValue(cmd, "helm-repositories"); err != nil {
		return nil, err
	}
	if opts.runUnits, err = switchValue(cmd, "units"); err != nil {
		return nil, err
	}
	if opts.dependencies, err = dependenciesValue(cmd, opts.units); err != nil {
		return nil, err
	}
	if cmd.Bool("no-units") && len(opts.units) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("option --no-units only works when you don't pass argument UNITS, you passed [%s]",
				strings.Join(opts.units, ", ")))
	}
	return opts, nil
}

func runUp(ctx context.Context, cmd *cli.Command, env upEnv) error {
	opts, err := parseUpOptions(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	log := slog.With("run", uuid.NewString(), "config", cfg.Path, "digest", cfg.Digest)
	log.Info("starting deployment",
		"units", opts.units,
		"dependencies", opts.dependencies,
		"dryRun", opts.dryRun)

	r := runner.New(
		runner.WithExec(env.exec),
		runner.WithKubeconfig(opts.kubeconfig),
		runner.WithDryRun(opts.dryRun),
		runner.WithOutput(env.stdout, env.stderr),
	)

	if opts.helmRepositories {
		if err := r.AddRepositories(ctx, cfg.HelmRepositories); err != nil {
			return errors.Wrap(errors.CodeOf(err, errors.ErrCodeExecutionFailed),
				"adding helm repositories failed", err)
		}
	}

	if !opts.runUnits {
		log.Info("skipping units")
		return nil
	}

	if opts.preflight && !opts.dryRun {
		if err := preflight(ctx, log, env, opts.kubeconfig, cfg); err != nil {
			return err
		}
	}

	if err := executor.New(r).Run(ctx, cfg.Units, opts.units, opts.dependencies); err != nil {
		return errors.Wrap(errors.CodeOf(err, errors.ErrCodeExecutionFailed),
			"running units failed", err)
	}

	log.Info("deployment completed", "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

func preflight(ctx context.Context, log *slog.Logger, env upEnv, kubeconfig string, cfg *unit.Config) error {
	cs, err := env.clientset(kubeconfig)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, "unable to create kubernetes client", err)
	}

	result, err := client.Preflight(ctx, cs, cfg.HelmNamespaces())
	if err != nil {
		return err
	}

	log.Info("cluster reachable", "serverVersion", result.ServerVersion)
	for _, ns := range result.MissingNamespaces {
		log.Warn("helm release namespace does not exist yet", "namespace", ns)
	}
	return nil
}
