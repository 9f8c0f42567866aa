/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/m8s-dev/m8s/pkg/errors"
	"github.com/m8s-dev/m8s/pkg/unit"
)

const invalidPrefix = "configuration is invalid, "

// StatFunc reports file information for a path.
type StatFunc func(path string) (fs.FileInfo, error)

// Validator runs the configuration checks in order.
type Validator struct {
	stat StatFunc
}

// Option is a functional option for configuring Validator instances.
type Option func(*Validator)

// WithStatFunc replaces the file lookup used by the file existence check.
func WithStatFunc(stat StatFunc) Option {
	return func(v *Validator) {
		v.stat = stat
	}
}

// New creates a new Validator with the provided options.
func New(opts ...Option) *Validator {
	v := &Validator{stat: os.Stat}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type check struct {
	name string
	run  func(cfg *unit.Config) error
}

// Validate runs every check against cfg and returns the first failure.
func (v *Validator) Validate(ctx context.Context, cfg *unit.Config) error {
	if cfg == nil {
		return errors.New(errors.ErrCodeInternal, "configuration cannot be nil")
	}

	start := time.Now()
	checks := []check{
		{"key-format", func(c *unit.Config) error { return CheckKeyFormat(c.Units) }},
		{"duplicate-keys", func(c *unit.Config) error { return CheckDuplicateKeys(c.Units) }},
		{"dependency-references", func(c *unit.Config) error { return CheckDependencyReferences(c.Units) }},
		{"cycles", func(c *unit.Config) error { return CheckCycles(c.Units) }},
		{"files", func(c *unit.Config) error { return checkFilesExist(c.Units, v.stat) }},
		{"helm-repositories", func(c *unit.Config) error {
			return CheckHelmRemoteRepositories(c.Units, c.HelmRepositories)
		}},
	}

	for _, c := range checks {
		select {
		case <-ctx.Done():
			return errors.Wrap(errors.ErrCodeTimeout, "context cancelled", ctx.Err())
		default:
		}

		if err := c.run(cfg); err != nil {
			slog.Debug("validation failed", "check", c.name, "error", err)
			return err
		}
	}

	slog.Debug("validation completed",
		"checks", len(checks),
		"duration", time.Since(start))

	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, invalidPrefix+fmt.Sprintf(format, args...))
}
