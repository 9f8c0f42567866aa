/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package unit

// Type names a Spec variant. Values match the YAML keys.
type Type string

const (
	TypeNoop       Type = "noop"
	TypeShell      Type = "shell"
	TypeManifest   Type = "manifest"
	TypeHelmRemote Type = "helmRemote"
	TypeHelmLocal  Type = "helmLocal"
	TypeGroup      Type = "group"
)

// Types lists every variant in the order they are documented.
var Types = []Type{TypeNoop, TypeShell, TypeManifest, TypeHelmRemote, TypeHelmLocal, TypeGroup}

// Spec is the closed set of unit variants.
type Spec interface {
	Type() Type
	sealed()
}

// Noop does nothing. Its value is opaque.
type Noop struct {
	Value string
}

// Shell runs Input through bash -c.
type Shell struct {
	Input string `yaml:"input"`
}

// Manifest is applied with kubectl apply -f.
type Manifest struct {
	Path string `yaml:"path"`
}

// HelmRemote installs or upgrades a chart from a registered repository.
type HelmRemote struct {
	Name         string   `yaml:"name"`
	Namespace    string   `yaml:"namespace"`
	ChartName    string   `yaml:"chartName"`
	ChartVersion string   `yaml:"chartVersion"`
	Values       []string `yaml:"values,omitempty"`
}

// HelmLocal installs or upgrades a chart from a directory on disk.
type HelmLocal struct {
	Name      string   `yaml:"name"`
	Namespace string   `yaml:"namespace"`
	ChartPath string   `yaml:"chartPath"`
	Values    []string `yaml:"values,omitempty"`
}

// Group nests an ordered mapping of units.
type Group struct {
	Units *Units
}

func (*Noop) Type() Type       { return TypeNoop }
func (*Shell) Type() Type      { return TypeShell }
func (*Manifest) Type() Type   { return TypeManifest }
func (*HelmRemote) Type() Type { return TypeHelmRemote }
func (*HelmLocal) Type() Type  { return TypeHelmLocal }
func (*Group) Type() Type      { return TypeGroup }

func (*Noop) sealed()       {}
func (*Shell) sealed()      {}
func (*Manifest) sealed()   {}
func (*HelmRemote) sealed() {}
func (*HelmLocal) sealed()  {}
func (*Group) sealed()      {}

// Entry is one unit: its spec and the sibling keys it depends on.
type Entry struct {
	Spec      Spec
	DependsOn []string
}

// HelmRepository is a chart repository registered with helm repo add.
type HelmRepository struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}
