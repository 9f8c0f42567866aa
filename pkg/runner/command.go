/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package runner

import (
	"strconv"
	"strings"

	"github.com/m8s-dev/m8s/pkg/defaults"
	"github.com/m8s-dev/m8s/pkg/unit"
)

// Command is a program and its arguments.
type Command struct {
	Program string   `json:"program" yaml:"program"`
	Args    []string `json:"args" yaml:"args"`
}

// String renders the command as a shell would read it back.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quote(c.Program))
	for _, a := range c.Args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\"'\\$`|&;<>()*?[]{}~#") {
		return s
	}
	return strconv.Quote(s)
}

// ShellCommand returns the command for a shell unit.
func ShellCommand(s *unit.Shell) Command {
	return Command{Program: defaults.ShellBinary, Args: []string{"-c", s.Input}}
}

// ManifestCommand returns the command for a manifest unit.
func ManifestCommand(m *unit.Manifest) Command {
	return Command{Program: defaults.KubectlBinary, Args: []string{"apply", "-f", m.Path}}
}

// HelmRemoteCommand returns the install or upgrade command for a remote chart.
func HelmRemoteCommand(h *unit.HelmRemote, upgrade bool) Command {
	args := []string{helmVerb(upgrade), h.Name, h.ChartName, "--version", h.ChartVersion, "--namespace", h.Namespace}
	return Command{Program: defaults.HelmBinary, Args: appendValues(args, h.Values)}
}

// HelmLocalCommand returns the install or upgrade command for a local chart.
func HelmLocalCommand(h *unit.HelmLocal, upgrade bool) Command {
	args := []string{helmVerb(upgrade), h.Name, h.ChartPath, "--namespace", h.Namespace}
	return Command{Program: defaults.HelmBinary, Args: appendValues(args, h.Values)}
}

// HelmListCommand returns the command listing the releases of namespace.
func HelmListCommand(namespace string) Command {
	return Command{Program: defaults.HelmBinary, Args: []string{"list", "--namespace", namespace, "--output", "yaml"}}
}

// RepoAddCommand returns the command registering a chart repository.
func RepoAddCommand(r unit.HelmRepository) Command {
	return Command{Program: defaults.HelmBinary, Args: []string{"repo", "add", r.Name, r.URL}}
}

// RepoUpdateCommand returns the command refreshing a chart repository index.
func RepoUpdateCommand(r unit.HelmRepository) Command {
	return Command{Program: defaults.HelmBinary, Args: []string{"repo", "update", r.Name}}
}

// CommandFor returns the command a unit would run on a fresh cluster, where
// every Helm release is installed. Noop and Group have no command.
func CommandFor(spec unit.Spec) (Command, bool) {
	switch s := spec.(type) {
	case *unit.Shell:
		return ShellCommand(s), true
	case *unit.Manifest:
		return ManifestCommand(s), true
	case *unit.HelmRemote:
		return HelmRemoteCommand(s, false), true
	case *unit.HelmLocal:
		return HelmLocalCommand(s, false), true
	default:
		return Command{}, false
	}
}

func helmVerb(upgrade bool) string {
	if upgrade {
		return "upgrade"
	}
	return "install"
}

func appendValues(args, values []string) []string {
	for _, v := range values {
		args = append(args, "-f", v)
	}
	return args
}
