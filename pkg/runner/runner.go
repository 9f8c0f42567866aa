/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package runner

import (
	"context"
	"io"
	"os"

	utilexec "k8s.io/utils/exec"

	"github.com/m8s-dev/m8s/pkg/unit"
)

// Runner runs unit commands as child processes.
type Runner struct {
	exec       utilexec.Interface
	kubeconfig string
	dryRun     bool
	stdout     io.Writer
	stderr     io.Writer
}

// Option is a functional option for configuring Runner instances.
type Option func(*Runner)

// WithExec sets the process factory.
func WithExec(e utilexec.Interface) Option {
	return func(r *Runner) {
		r.exec = e
	}
}

// WithKubeconfig exports KUBECONFIG=path to every child process.
func WithKubeconfig(path string) Option {
	return func(r *Runner) {
		r.kubeconfig = path
	}
}

// WithDryRun disables process creation.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) {
		r.dryRun = dryRun
	}
}

// WithOutput sets where child stdout and stderr are echoed.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// New creates a Runner using the host's processes and standard streams.
func New(opts ...Option) *Runner {
	r := &Runner{
		exec:   utilexec.New(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DryRun reports whether the runner skips process creation.
func (r *Runner) DryRun() bool {
	return r.dryRun
}

// Shell runs a shell unit.
func (r *Runner) Shell(ctx context.Context, s *unit.Shell) error {
	return r.Run(ctx, ShellCommand(s))
}

// Manifest applies a manifest unit.
func (r *Runner) Manifest(ctx context.Context, m *unit.Manifest) error {
	return r.Run(ctx, ManifestCommand(m))
}

// HelmRemote installs or upgrades a chart from a repository.
func (r *Runner) HelmRemote(ctx context.Context, h *unit.HelmRemote) error {
	exists, err := r.ReleaseExists(ctx, h.Name, h.Namespace)
	if err != nil {
		return err
	}
	return r.Run(ctx, HelmRemoteCommand(h, exists))
}

// HelmLocal installs or upgrades a chart from disk.
func (r *Runner) HelmLocal(ctx context.Context, h *unit.HelmLocal) error {
	exists, err := r.ReleaseExists(ctx, h.Name, h.Namespace)
	if err != nil {
		return err
	}
	return r.Run(ctx, HelmLocalCommand(h, exists))
}

func (r *Runner) command(c Command) utilexec.Cmd {
	cmd := r.exec.Command(c.Program, c.Args...)
	if r.kubeconfig != "" {
		cmd.SetEnv(append(os.Environ(), "KUBECONFIG="+r.kubeconfig))
	}
	return cmd
}
