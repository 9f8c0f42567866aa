/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package unit

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const dependsOnKey = "dependsOn"

// UnmarshalYAML decodes a mapping node keeping key order and duplicates.
func (u *Units) UnmarshalYAML(node *yaml.Node) error {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: units must be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		var entry Entry
		if err := valueNode.Decode(&entry); err != nil {
			return fmt.Errorf("unit %q: %w", keyNode.Value, err)
		}
		u.Add(keyNode.Value, &entry)
	}
	return nil
}

// UnmarshalYAML decodes the flattened form: one variant key plus an
// optional dependsOn list.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: unit must be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		if keyNode.Value == dependsOnKey {
			if err := valueNode.Decode(&e.DependsOn); err != nil {
				return fmt.Errorf("line %d: %s: %w", valueNode.Line, dependsOnKey, err)
			}
			continue
		}

		spec, err := decodeSpec(Type(keyNode.Value), valueNode)
		if err != nil {
			return err
		}
		if e.Spec != nil {
			return fmt.Errorf("line %d: unit has more than one type: %s and %s",
				keyNode.Line, e.Spec.Type(), spec.Type())
		}
		e.Spec = spec
	}

	if e.Spec == nil {
		return fmt.Errorf("line %d: unit has no type, expected one of: %s", node.Line, typeNames())
	}
	return nil
}

func decodeSpec(t Type, node *yaml.Node) (Spec, error) {
	switch t {
	case TypeNoop:
		s := &Noop{}
		if !isNull(node) {
			if err := node.Decode(&s.Value); err != nil {
				return nil, fmt.Errorf("line %d: noop: %w", node.Line, err)
			}
		}
		return s, nil
	case TypeShell:
		s := &Shell{}
		return s, decodeStrict(node, t, s, "input")
	case TypeManifest:
		s := &Manifest{}
		return s, decodeStrict(node, t, s, "path")
	case TypeHelmRemote:
		s := &HelmRemote{}
		return s, decodeStrict(node, t, s, "name", "namespace", "chartName", "chartVersion", "values")
	case TypeHelmLocal:
		s := &HelmLocal{}
		return s, decodeStrict(node, t, s, "name", "namespace", "chartPath", "values")
	case TypeGroup:
		s := &Group{Units: &Units{}}
		if err := node.Decode(s.Units); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("line %d: unknown field %q, expected one of: %s, %s",
			node.Line, t, typeNames(), dependsOnKey)
	}
}

// decodeStrict decodes node into out, rejecting keys outside allowed.
func decodeStrict(node *yaml.Node, t Type, out any, allowed ...string) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a mapping", node.Line, t)
	}
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i]
		if !contains(allowed, key.Value) {
			return fmt.Errorf("line %d: %s: unknown field %q", key.Line, t, key.Value)
		}
	}
	if err := node.Decode(out); err != nil {
		return fmt.Errorf("line %d: %s: %w", node.Line, t, err)
	}
	return nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func typeNames() string {
	names := make([]string, 0, len(Types))
	for _, t := range Types {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
