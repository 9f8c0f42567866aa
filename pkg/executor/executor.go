/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m8s-dev/m8s/pkg/errors"
	"github.com/m8s-dev/m8s/pkg/scheduler"
	"github.com/m8s-dev/m8s/pkg/selector"
	"github.com/m8s-dev/m8s/pkg/unit"
)

// Runner executes the unit types that have side effects.
type Runner interface {
	Shell(ctx context.Context, s *unit.Shell) error
	Manifest(ctx context.Context, m *unit.Manifest) error
	HelmRemote(ctx context.Context, h *unit.HelmRemote) error
	HelmLocal(ctx context.Context, h *unit.HelmLocal) error
}

// Step is one unit reached by the executor.
type Step struct {
	Scope string
	Key   string
	Spec  unit.Spec
}

// Path returns the colon-joined path of the step.
func (s Step) Path() string {
	return unit.Path(s.Scope, s.Key)
}

// Observer is called before every step is dispatched, groups included.
type Observer func(Step)

// Executor runs unit trees.
type Executor struct {
	runner   Runner
	observer Observer
}

// Option is a functional option for configuring Executor instances.
type Option func(*Executor)

// WithObserver registers fn to be called for every step.
func WithObserver(fn Observer) Option {
	return func(e *Executor) {
		e.observer = fn
	}
}

// New creates an Executor dispatching to runner.
func New(runner Runner, opts ...Option) *Executor {
	e := &Executor{runner: runner}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the units selected by tokens. With no tokens every root unit
// is selected. includeDependencies pulls in the dependencies of selected
// units; groups named without a qualifier always include them.
func (e *Executor) Run(ctx context.Context, units *unit.Units, tokens []string, includeDependencies bool) error {
	sel := selector.ForRoot(tokens, units, includeDependencies)
	return e.runScope(ctx, "", units, sel)
}

func (e *Executor) runScope(ctx context.Context, scope string, units *unit.Units, sel selector.Selection) error {
	heads, err := selector.Resolve(scope, units, sel.Tokens)
	if err != nil {
		return err
	}

	ordered, err := scheduler.Order(units, heads, sel.IncludeDependencies)
	if err != nil {
		return err
	}

	slog.Debug("running scope",
		"scope", scope,
		"units", ordered.Keys(),
		"dependencies", sel.IncludeDependencies)

	for key, entry := range ordered.All() {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeTimeout, "context cancelled", err)
		}

		step := Step{Scope: scope, Key: key, Spec: entry.Spec}
		if e.observer != nil {
			e.observer(step)
		}

		if g, ok := entry.Spec.(*unit.Group); ok {
			child := selector.ForGroup(sel.Tokens, key, g.Units, sel.IncludeDependencies)
			if err := e.runScope(ctx, step.Path(), g.Units, child); err != nil {
				return err
			}
			continue
		}

		if err := e.dispatch(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) dispatch(ctx context.Context, step Step) error {
	start := time.Now()
	slog.Info("running unit", "unit", step.Path(), "type", step.Spec.Type())

	var err error
	switch s := step.Spec.(type) {
	case *unit.Noop:
	case *unit.Shell:
		err = e.runner.Shell(ctx, s)
	case *unit.Manifest:
		err = e.runner.Manifest(ctx, s)
	case *unit.HelmRemote:
		err = e.runner.HelmRemote(ctx, s)
	case *unit.HelmLocal:
		err = e.runner.HelmLocal(ctx, s)
	default:
		err = errors.New(errors.ErrCodeInternal, fmt.Sprintf("unsupported unit type %T", step.Spec))
	}

	unitDuration.WithLabelValues(string(step.Spec.Type())).Observe(time.Since(start).Seconds())
	if err != nil {
		unitTotal.WithLabelValues(string(step.Spec.Type()), "error").Inc()
		return errors.Wrap(errors.CodeOf(err, errors.ErrCodeExecutionFailed),
			fmt.Sprintf("running unit %q failed", step.Path()), err)
	}
	unitTotal.WithLabelValues(string(step.Spec.Type()), "success").Inc()
	return nil
}
