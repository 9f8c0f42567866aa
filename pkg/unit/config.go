/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package unit

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/m8s-dev/m8s/pkg/errors"
)

// Config is the root of a configuration file.
type Config struct {
	// HelmRepositories is nil when the key is absent.
	HelmRepositories []HelmRepository `yaml:"helmRepositories"`
	Units            *Units           `yaml:"units"`

	// Path is the file the configuration was loaded from.
	Path string `yaml:"-"`
	// Digest is the xxhash of the raw file contents.
	Digest string `yaml:"-"`
}

// Load reads, decodes and path-rewrites the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeNotFound,
				fmt.Sprintf("configuration file %q not found", path), err)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("unable to read configuration file %q", path), err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cfg.Path = path
	cfg.Digest = Digest(data)
	cfg.ResolvePaths(filepath.Dir(path))

	slog.Debug("configuration loaded",
		"path", path,
		"digest", cfg.Digest,
		"units", cfg.Units.Len(),
		"helmRepositories", len(cfg.HelmRepositories))

	return cfg, nil
}

// Parse decodes a configuration document. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if stderrors.Is(err, io.EOF) {
			err = stderrors.New("document is empty")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, "unable to parse configuration file", err)
	}
	if cfg.Units == nil {
		cfg.Units = &Units{}
	}
	return &cfg, nil
}

// Digest returns the hex xxhash of data.
func Digest(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// ResolvePaths joins every relative file reference onto dir: manifest
// paths, values files and local chart paths, recursively through groups.
func (c *Config) ResolvePaths(dir string) {
	_ = c.Units.Walk(func(_, _ string, entry *Entry) error {
		switch s := entry.Spec.(type) {
		case *Manifest:
			s.Path = join(dir, s.Path)
		case *HelmRemote:
			s.Values = joinAll(dir, s.Values)
		case *HelmLocal:
			s.ChartPath = join(dir, s.ChartPath)
			s.Values = joinAll(dir, s.Values)
		}
		return nil
	})
}

func join(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func joinAll(dir string, paths []string) []string {
	if paths == nil {
		return nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = join(dir, p)
	}
	return out
}

// Scope returns the units of the group addressed by a colon-separated path.
// An empty path returns the root units.
func (c *Config) Scope(path string) (*Units, error) {
	units := c.Units
	if path == "" {
		return units, nil
	}

	scope := ""
	for _, key := range strings.Split(path, ":") {
		entry, ok := units.Get(key)
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound,
				fmt.Sprintf("unit %q not found", Path(scope, key)))
		}
		g, ok := entry.Spec.(*Group)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("unit %q is a %s, not a group", Path(scope, key), entry.Spec.Type()))
		}
		scope = Path(scope, key)
		units = g.Units
	}
	return units, nil
}

// HelmNamespaces returns the distinct namespaces of every Helm unit in the
// tree, in first-appearance order.
func (c *Config) HelmNamespaces() []string {
	seen := make(map[string]bool)
	var namespaces []string
	add := func(ns string) {
		if ns == "" || seen[ns] {
			return
		}
		seen[ns] = true
		namespaces = append(namespaces, ns)
	}

	_ = c.Units.Walk(func(_, _ string, entry *Entry) error {
		switch s := entry.Spec.(type) {
		case *HelmRemote:
			add(s.Namespace)
		case *HelmLocal:
			add(s.Namespace)
		}
		return nil
	})
	return namespaces
}
