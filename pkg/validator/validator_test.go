/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m8s-dev/m8s/pkg/errors"
	"github.com/m8s-dev/m8s/pkg/unit"
)

func parse(t *testing.T, doc string) *unit.Config {
	t.Helper()
	cfg, err := unit.Parse([]byte(doc))
	require.NoError(t, err)
	return cfg
}

func assertInvalid(t *testing.T, err error, want string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, "configuration is invalid, "+want, err.Error())
	assert.Equal(t, errors.ErrCodeInvalidConfig, errors.CodeOf(err, errors.ErrCodeInternal))
}

func TestCheckKeyFormat(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "valid",
			doc:  "units:\n  abc123:\n    noop: \"\"\n  ABC:\n    group:\n      x9:\n        noop: \"\"\n",
		},
		{
			name:    "colon",
			doc:     "units:\n  not:valid:\n    noop: \"\"\n",
			wantErr: "unit key can only contain [a-zA-Z0-9]: not:valid",
		},
		{
			name:    "nested dash",
			doc:     "units:\n  g:\n    group:\n      my-unit:\n        noop: \"\"\n",
			wantErr: "unit key can only contain [a-zA-Z0-9]: my-unit",
		},
		{
			name:    "pre-order reports parent first",
			doc:     "units:\n  g_1:\n    group:\n      a-b:\n        noop: \"\"\n",
			wantErr: "unit key can only contain [a-zA-Z0-9]: g_1",
		},
		{
			name:    "empty key",
			doc:     "units:\n  \"\":\n    noop: \"\"\n",
			wantErr: "unit key can only contain [a-zA-Z0-9]: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckKeyFormat(parse(t, tt.doc).Units)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assertInvalid(t, err, tt.wantErr)
		})
	}
}

func TestCheckDuplicateKeys(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "unique",
			doc:  "units:\n  a:\n    noop: \"\"\n  g:\n    group:\n      b:\n        noop: \"\"\n",
		},
		{
			name: "across depths",
			doc: `units:
  b:
    noop: ""
  a:
    noop: ""
  g:
    group:
      a:
        noop: ""
      h:
        group:
          b:
            noop: ""
          a:
            noop: ""
`,
			wantErr: "duplicate unit keys: a, b",
		},
		{
			name:    "same mapping",
			doc:     "units:\n  a:\n    noop: \"\"\n  a:\n    noop: \"\"\n",
			wantErr: "duplicate unit keys: a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDuplicateKeys(parse(t, tt.doc).Units)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assertInvalid(t, err, tt.wantErr)
		})
	}
}

func TestCheckDependencyReferences(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "resolved",
			doc:  "units:\n  a:\n    noop: \"\"\n  b:\n    dependsOn: [a]\n    noop: \"\"\n",
		},
		{
			name: "aggregated and sorted",
			doc: `units:
  a:
    dependsOn: [doesNotExist2, doesNotExist1]
    noop: ""
  b:
    dependsOn: [a, doesNotExist1]
    noop: ""
`,
			wantErr: "invalid dependencies: doesNotExist1, doesNotExist2",
		},
		{
			name: "no cross-scope references",
			doc: `units:
  a:
    noop: ""
  g:
    group:
      b:
        dependsOn: [a]
        noop: ""
`,
			wantErr: "invalid dependencies: a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDependencyReferences(parse(t, tt.doc).Units)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assertInvalid(t, err, tt.wantErr)
		})
	}
}

func TestCheckCycles(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "acyclic",
			doc: `units:
  a:
    noop: ""
  b:
    dependsOn: [a]
    noop: ""
  c:
    dependsOn: [a, b]
    noop: ""
`,
		},
		{
			name: "two units",
			doc: `units:
  foobarNoop:
    dependsOn: [foobazNoop]
    noop: ""
  foobazNoop:
    dependsOn: [foobarNoop]
    noop: ""
`,
			wantErr: `dependency cycle for "foobarNoop": foobarNoop -> foobazNoop -> foobarNoop`,
		},
		{
			name: "self",
			doc: `units:
  a:
    dependsOn: [a]
    noop: ""
`,
			wantErr: `dependency cycle for "a": a -> a`,
		},
		{
			name: "tail cycle",
			doc: `units:
  x:
    dependsOn: [a]
    noop: ""
  a:
    dependsOn: [c]
    noop: ""
  b:
    dependsOn: [a]
    noop: ""
  c:
    dependsOn: [b]
    noop: ""
`,
			wantErr: `dependency cycle for "a": a -> c -> b -> a`,
		},
		{
			name: "nested group",
			doc: `units:
  g:
    group:
      a:
        dependsOn: [b]
        noop: ""
      b:
        dependsOn: [a]
        noop: ""
`,
			wantErr: `dependency cycle for "a": a -> b -> a`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCycles(parse(t, tt.doc).Units)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assertInvalid(t, err, tt.wantErr)
		})
	}
}

func TestFindCycle_PathShape(t *testing.T) {
	cfg := parse(t, `units:
  a:
    dependsOn: [b]
    noop: ""
  b:
    dependsOn: [c]
    noop: ""
  c:
    dependsOn: [a]
    noop: ""
`)
	cycle := FindCycle(cfg.Units)
	require.Len(t, cycle, 4)
	assert.Equal(t, cycle[0], cycle[len(cycle)-1])
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cycle[:3])
}

func TestCheckHelmRemoteRepositories(t *testing.T) {
	remote := func(chart string) string {
		return `
units:
  myChart:
    helmRemote:
      name: rel
      namespace: ns
      chartName: ` + chart + `
      chartVersion: 1.0.0
`
	}
	repos := "helmRepositories:\n  - name: bitnami\n    url: https://charts.bitnami.com/bitnami\n  - name: jetstack\n    url: https://charts.jetstack.io\n"

	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "known repository",
			doc:  repos + remote("bitnami/postgresql"),
		},
		{
			name:    "missing separator without repositories",
			doc:     remote("invalid"),
			wantErr: `unit "myChart": chart name "invalid" doesn't start with a repository name`,
		},
		{
			name:    "missing separator with repositories",
			doc:     repos + remote("invalid"),
			wantErr: `unit "myChart": chart name "invalid" doesn't start with a repository name`,
		},
		{
			name:    "no repositories configured",
			doc:     remote("bitnami/postgresql"),
			wantErr: `unit "myChart": no repositories configured`,
		},
		{
			name:    "empty repository list",
			doc:     "helmRepositories: []\n" + remote("invalid/postgresql"),
			wantErr: `unit "myChart": repository with name "invalid" doesn't exist, valid names are: []`,
		},
		{
			name:    "unknown repository",
			doc:     repos + remote("invalid/postgresql"),
			wantErr: `unit "myChart": repository with name "invalid" doesn't exist, valid names are: [bitnami, jetstack]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := parse(t, tt.doc)
			err := CheckHelmRemoteRepositories(cfg.Units, cfg.HelmRepositories)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assertInvalid(t, err, tt.wantErr)
		})
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("kind: ConfigMap\n"), 0o600))
}

func loadFrom(t *testing.T, dir, doc string) *unit.Config {
	t.Helper()
	path := filepath.Join(dir, "m8s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	cfg, err := unit.Load(path)
	require.NoError(t, err)
	return cfg
}

func TestCheckFilesExist(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "manifest.yaml"))
	writeFile(t, filepath.Join(dir, "values.yaml"))
	writeFile(t, filepath.Join(dir, "chart", "Chart.yaml"))

	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "all present",
			doc: `units:
  m:
    manifest:
      path: manifest.yaml
  l:
    helmLocal:
      name: l
      namespace: ns
      chartPath: chart
      values: [values.yaml]
`,
		},
		{
			name:    "missing manifest",
			doc:     "units:\n  m:\n    manifest:\n      path: nope.yaml\n",
			wantErr: `unit "m" references file that doesn't exist: ` + filepath.Join(dir, "nope.yaml"),
		},
		{
			name:    "manifest is a directory",
			doc:     "units:\n  m:\n    manifest:\n      path: chart\n",
			wantErr: `unit "m" references file that doesn't exist: ` + filepath.Join(dir, "chart"),
		},
		{
			name: "missing remote values",
			doc: `units:
  r:
    helmRemote:
      name: r
      namespace: ns
      chartName: repo/chart
      chartVersion: 1.0.0
      values: [values.yaml, other.yaml]
`,
			wantErr: `unit "r" references file that doesn't exist: ` + filepath.Join(dir, "other.yaml"),
		},
		{
			name: "missing chart directory",
			doc: `units:
  g:
    group:
      l:
        helmLocal:
          name: l
          namespace: ns
          chartPath: charts/missing
`,
			wantErr: `unit "l" references directory that doesn't exist: ` + filepath.Join(dir, "charts/missing"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFilesExist(loadFrom(t, dir, tt.doc).Units)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assertInvalid(t, err, tt.wantErr)
		})
	}
}

func TestValidate_Order(t *testing.T) {
	// Every check below would fail; the reported one follows the fixed order.
	base := `units:
  bad-key:
    dependsOn: [ghost]
    manifest:
      path: /definitely/missing.yaml
  a:
    noop: ""
  g:
    group:
      a:
        noop: ""
`
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"key format first", base, "unit key can only contain [a-zA-Z0-9]: bad-key"},
		{
			"duplicates before references",
			"units:\n  x:\n    dependsOn: [ghost]\n    noop: \"\"\n  g:\n    group:\n      x:\n        noop: \"\"\n",
			"duplicate unit keys: x",
		},
		{
			"references before cycles",
			"units:\n  x:\n    dependsOn: [ghost, x]\n    noop: \"\"\n",
			"invalid dependencies: ghost",
		},
		{
			"cycles before files",
			"units:\n  x:\n    dependsOn: [x]\n    manifest:\n      path: /definitely/missing.yaml\n",
			`dependency cycle for "x": x -> x`,
		},
		{
			"files before helm repositories",
			`units:
  x:
    manifest:
      path: /definitely/missing.yaml
  y:
    helmRemote:
      name: y
      namespace: ns
      chartName: invalid
      chartVersion: 1.0.0
`,
			`unit "x" references file that doesn't exist: /definitely/missing.yaml`,
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertInvalid(t, v.Validate(context.Background(), parse(t, tt.doc)), tt.wantErr)
		})
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "manifests", "ns.yaml"))
	writeFile(t, filepath.Join(dir, "charts", "api", "Chart.yaml"))

	cfg := loadFrom(t, dir, `
helmRepositories:
  - name: bitnami
    url: https://charts.bitnami.com/bitnami
units:
  ns:
    manifest:
      path: manifests/ns.yaml
  db:
    dependsOn: [ns]
    helmRemote:
      name: db
      namespace: apps
      chartName: bitnami/postgresql
      chartVersion: 12.1.0
  apps:
    dependsOn: [db]
    group:
      api:
        helmLocal:
          name: api
          namespace: apps
          chartPath: charts/api
      smoke:
        dependsOn: [api]
        shell:
          input: kubectl -n apps get pods
`)
	keys := cfg.Units.Keys()

	require.NoError(t, New().Validate(context.Background(), cfg))
	assert.Equal(t, keys, cfg.Units.Keys())
}

func TestValidate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().Validate(ctx, parse(t, "units: {}\n"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(err, errors.ErrCodeInternal))
}

func TestValidate_WithStatFunc(t *testing.T) {
	var seen []string
	v := New(WithStatFunc(func(path string) (os.FileInfo, error) {
		seen = append(seen, path)
		return os.Stat(os.TempDir())
	}))

	err := v.Validate(context.Background(), parse(t, "units:\n  m:\n    manifest:\n      path: x.yaml\n"))
	assertInvalid(t, err, `unit "m" references file that doesn't exist: x.yaml`)
	assert.Equal(t, []string{"x.yaml"}, seen)
}
