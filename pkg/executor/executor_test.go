/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package executor

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingexec "k8s.io/utils/exec/testing"

	"github.com/m8s-dev/m8s/pkg/errors"
	"github.com/m8s-dev/m8s/pkg/runner"
	"github.com/m8s-dev/m8s/pkg/unit"
)

// mockRunner records the input of every shell unit it runs.
type mockRunner struct {
	ran   []string
	fail  map[string]error
	other int
}

func newMockRunner() *mockRunner {
	return &mockRunner{fail: make(map[string]error)}
}

func (m *mockRunner) Shell(_ context.Context, s *unit.Shell) error {
	if err, ok := m.fail[s.Input]; ok {
		return err
	}
	m.ran = append(m.ran, s.Input)
	return nil
}

func (m *mockRunner) Manifest(context.Context, *unit.Manifest) error {
	m.other++
	return nil
}

func (m *mockRunner) HelmRemote(context.Context, *unit.HelmRemote) error {
	m.other++
	return nil
}

func (m *mockRunner) HelmLocal(context.Context, *unit.HelmLocal) error {
	m.other++
	return nil
}

func shell(label string, deps ...string) *unit.Entry {
	return &unit.Entry{Spec: &unit.Shell{Input: label}, DependsOn: deps}
}

func group(units *unit.Units, deps ...string) *unit.Entry {
	return &unit.Entry{Spec: &unit.Group{Units: units}, DependsOn: deps}
}

// chain is {a: [], b: [a], c: [b]}.
func chain() *unit.Units {
	return unit.NewUnits(
		unit.Item{Key: "a", Entry: shell("a")},
		unit.Item{Key: "b", Entry: shell("b", "a")},
		unit.Item{Key: "c", Entry: shell("c", "b")},
	)
}

// nested is {a: [], b: group{c: [], d: [c]}}.
func nested() *unit.Units {
	return unit.NewUnits(
		unit.Item{Key: "a", Entry: shell("a")},
		unit.Item{Key: "b", Entry: group(unit.NewUnits(
			unit.Item{Key: "c", Entry: shell("b:c")},
			unit.Item{Key: "d", Entry: shell("b:d", "c")},
		))},
	)
}

func TestExecutor_Run(t *testing.T) {
	tests := []struct {
		name   string
		units  *unit.Units
		tokens []string
		deps   bool
		want   []string
	}{
		{"chain with dependencies", chain(), []string{"c"}, true, []string{"a", "b", "c"}},
		{"chain without dependencies", chain(), []string{"c"}, false, []string{"c"}},
		{"everything", chain(), nil, true, []string{"a", "b", "c"}},
		{"everything without dependencies", chain(), nil, false, []string{"a", "b", "c"}},
		{"bare group ignores no-dependencies", nested(), []string{"b"}, false, []string{"b:c", "b:d"}},
		{"qualified group without dependencies", nested(), []string{"b:d"}, false, []string{"b:d"}},
		{"qualified group with dependencies", nested(), []string{"b:d"}, true, []string{"b:c", "b:d"}},
		{"repeated tokens run once", nested(), []string{"a", "b:c", "a", "b:c"}, false, []string{"a", "b:c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockRunner()
			err := New(m).Run(context.Background(), tt.units, tt.tokens, tt.deps)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.ran)
		})
	}
}

func TestExecutor_Run_GroupDependsOnSibling(t *testing.T) {
	units := unit.NewUnits(
		unit.Item{Key: "g", Entry: group(unit.NewUnits(
			unit.Item{Key: "x", Entry: shell("g:x")},
		), "a")},
		unit.Item{Key: "a", Entry: shell("a")},
	)

	m := newMockRunner()
	require.NoError(t, New(m).Run(context.Background(), units, []string{"g"}, true))
	assert.Equal(t, []string{"a", "g:x"}, m.ran)
}

func TestExecutor_Run_FailureStops(t *testing.T) {
	units := unit.NewUnits(
		unit.Item{Key: "a", Entry: shell("a")},
		unit.Item{Key: "g", Entry: group(unit.NewUnits(
			unit.Item{Key: "x", Entry: shell("g:x")},
			unit.Item{Key: "y", Entry: shell("g:y")},
		))},
		unit.Item{Key: "c", Entry: shell("c")},
	)

	m := newMockRunner()
	m.fail["g:x"] = errors.New(errors.ErrCodeExecutionFailed, "Error: INSTALLATION FAILED")

	err := New(m).Run(context.Background(), units, nil, true)
	require.Error(t, err)
	assert.Equal(t, `running unit "g:x" failed: Error: INSTALLATION FAILED`, err.Error())
	assert.Equal(t, errors.ErrCodeExecutionFailed, errors.CodeOf(err, errors.ErrCodeInternal))
	assert.Equal(t, []string{"a"}, m.ran)
}

func TestExecutor_Run_PlainErrorCode(t *testing.T) {
	m := newMockRunner()
	m.fail["a"] = stderrors.New("boom")

	err := New(m).Run(context.Background(), chain(), []string{"a"}, true)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeExecutionFailed, errors.CodeOf(err, errors.ErrCodeInternal))
}

func TestExecutor_Run_InvalidSelector(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"unknown root key", []string{"a", "zzz"}, `unit "zzz" not found in the root`},
		{"unknown nested key", []string{"b:e"}, `unit "e" not found in group "b", did you mean "c"?`},
		{"qualified non-group", []string{"a:x"}, `unit "a" is a shell`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockRunner()
			err := New(m).Run(context.Background(), nested(), tt.tokens, true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err, errors.ErrCodeInternal))
		})
	}
}

func TestExecutor_Observer(t *testing.T) {
	var paths []string
	var types []unit.Type
	e := New(newMockRunner(), WithObserver(func(s Step) {
		paths = append(paths, s.Path())
		types = append(types, s.Spec.Type())
	}))

	require.NoError(t, e.Run(context.Background(), nested(), nil, true))
	assert.Equal(t, []string{"a", "b", "b:c", "b:d"}, paths)
	assert.Equal(t, []unit.Type{unit.TypeShell, unit.TypeGroup, unit.TypeShell, unit.TypeShell}, types)
}

func TestExecutor_Dispatch(t *testing.T) {
	units := unit.NewUnits(
		unit.Item{Key: "n", Entry: &unit.Entry{Spec: &unit.Noop{Value: "marker"}}},
		unit.Item{Key: "m", Entry: &unit.Entry{Spec: &unit.Manifest{Path: "x.yaml"}}},
		unit.Item{Key: "r", Entry: &unit.Entry{Spec: &unit.HelmRemote{Name: "r"}}},
		unit.Item{Key: "l", Entry: &unit.Entry{Spec: &unit.HelmLocal{Name: "l"}}},
	)

	before := testutil.ToFloat64(unitTotal.WithLabelValues("noop", "success"))

	m := newMockRunner()
	require.NoError(t, New(m).Run(context.Background(), units, nil, true))
	assert.Equal(t, 3, m.other)
	assert.Empty(t, m.ran)
	assert.Equal(t, before+1, testutil.ToFloat64(unitTotal.WithLabelValues("noop", "success")))
}

func TestExecutor_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newMockRunner()
	err := New(m).Run(ctx, chain(), nil, true)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(err, errors.ErrCodeInternal))
	assert.Empty(t, m.ran)
}

func TestExecutor_DryRunNeverSpawns(t *testing.T) {
	units := unit.NewUnits(
		unit.Item{Key: "s", Entry: shell("exit 1")},
		unit.Item{Key: "m", Entry: &unit.Entry{Spec: &unit.Manifest{Path: "x.yaml"}}},
		unit.Item{Key: "g", Entry: group(unit.NewUnits(
			unit.Item{Key: "r", Entry: &unit.Entry{Spec: &unit.HelmRemote{
				Name: "r", Namespace: "ns", ChartName: "repo/chart", ChartVersion: "1.0.0",
			}}},
		), "s")},
	)

	fe := &testingexec.FakeExec{}
	r := runner.New(runner.WithExec(fe), runner.WithDryRun(true))

	require.NoError(t, New(r).Run(context.Background(), units, nil, true))
	assert.Equal(t, 0, fe.CommandCalls)
}
