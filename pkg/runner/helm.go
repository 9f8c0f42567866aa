/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package runner

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/m8s-dev/m8s/pkg/errors"
	"github.com/m8s-dev/m8s/pkg/unit"
)

// Release is one entry of helm list output.
type Release struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace"`
}

// ReleaseExists reports whether release name is installed in namespace.
// Dry runs never query the cluster and report false.
func (r *Runner) ReleaseExists(ctx context.Context, name, namespace string) (bool, error) {
	if r.dryRun {
		return false, nil
	}

	c := HelmListCommand(namespace)
	slog.DebugContext(ctx, "listing helm releases", "command", c.String())

	out, err := r.command(c).Output()
	if err != nil {
		return false, errors.WrapWithContext(errors.ErrCodeExecutionFailed,
			fmt.Sprintf("could not list helm releases in namespace %q", namespace), err,
			map[string]any{"command": c.String()})
	}

	releases, err := ParseReleases(out)
	if err != nil {
		return false, err
	}

	for _, rel := range releases {
		if rel.Name == name && rel.Namespace == namespace {
			return true, nil
		}
	}
	return false, nil
}

// ParseReleases decodes the YAML output of helm list.
func ParseReleases(data []byte) ([]Release, error) {
	var releases []Release
	if err := yaml.Unmarshal(data, &releases); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExecutionFailed, "could not read helm releases", err)
	}
	return releases, nil
}

// AddRepositories registers and refreshes every repository in order.
func (r *Runner) AddRepositories(ctx context.Context, repositories []unit.HelmRepository) error {
	for _, repo := range repositories {
		slog.InfoContext(ctx, "adding helm repository", "name", repo.Name, "url", repo.URL)

		if err := r.Run(ctx, RepoAddCommand(repo)); err != nil {
			return err
		}
		if err := r.Run(ctx, RepoUpdateCommand(repo)); err != nil {
			return err
		}
	}
	return nil
}
