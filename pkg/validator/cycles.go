/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"slices"
	"strings"

	"github.com/m8s-dev/m8s/pkg/unit"
)

// CheckCycles fails on the first dependency cycle found, scanning the root
// mapping before the groups it contains.
func CheckCycles(units *unit.Units) error {
	if cycle := FindCycle(units); cycle != nil {
		return invalid("dependency cycle for %q: %s", cycle[0], strings.Join(cycle, " -> "))
	}
	for _, g := range units.Groups() {
		if err := CheckCycles(g.Units); err != nil {
			return err
		}
	}
	return nil
}

// FindCycle returns the first cycle of a single mapping as a path that
// starts and ends on the same key, or nil. Keys are tried in declaration
// order and dependencies are followed in the order they are declared.
// Unknown dependency names are ignored.
func FindCycle(units *unit.Units) []string {
	deps := make(map[string][]string, units.Len())
	for key, entry := range units.All() {
		if _, ok := deps[key]; !ok {
			deps[key] = entry.DependsOn
		}
	}

	for _, key := range units.Keys() {
		if cycle := visit(key, deps, make(map[string]bool), nil); cycle != nil {
			return cycle
		}
	}
	return nil
}

func visit(key string, deps map[string][]string, visited map[string]bool, stack []string) []string {
	if i := slices.Index(stack, key); i >= 0 {
		return append(slices.Clone(stack[i:]), key)
	}
	if visited[key] {
		return nil
	}
	visited[key] = true

	stack = append(stack, key)
	for _, dep := range deps[key] {
		if cycle := visit(dep, deps, visited, stack); cycle != nil {
			return cycle
		}
	}
	return nil
}
