/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"regexp"
	"slices"
	"strings"

	"github.com/m8s-dev/m8s/pkg/unit"
)

var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// CheckKeyFormat fails on the first key, in depth-first pre-order, that is
// not purely alphanumeric.
func CheckKeyFormat(units *unit.Units) error {
	return units.Walk(func(_, key string, _ *unit.Entry) error {
		if !keyPattern.MatchString(key) {
			return invalid("unit key can only contain [a-zA-Z0-9]: %s", key)
		}
		return nil
	})
}

// CheckDuplicateKeys fails when any key appears more than once anywhere in
// the tree. Each duplicate is reported once, sorted.
func CheckDuplicateKeys(units *unit.Units) error {
	counts := make(map[string]int)
	_ = units.Walk(func(_, key string, _ *unit.Entry) error {
		counts[key]++
		return nil
	})

	var duplicates []string
	for key, n := range counts {
		if n > 1 {
			duplicates = append(duplicates, key)
		}
	}
	if len(duplicates) == 0 {
		return nil
	}
	slices.Sort(duplicates)
	return invalid("duplicate unit keys: %s", strings.Join(duplicates, ", "))
}

// CheckDependencyReferences fails when a dependsOn entry does not name a
// unit of the same mapping. Dangling names from every scope are reported
// together, deduplicated and sorted.
func CheckDependencyReferences(units *unit.Units) error {
	missing := make(map[string]bool)
	collectMissingDependencies(units, missing)
	if len(missing) == 0 {
		return nil
	}

	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	slices.Sort(names)
	return invalid("invalid dependencies: %s", strings.Join(names, ", "))
}

func collectMissingDependencies(units *unit.Units, missing map[string]bool) {
	for _, entry := range units.All() {
		for _, dep := range entry.DependsOn {
			if !units.Has(dep) {
				missing[dep] = true
			}
		}
	}
	for _, g := range units.Groups() {
		collectMissingDependencies(g.Units, missing)
	}
}
