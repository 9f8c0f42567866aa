/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package scheduler computes which units of one scope run, and in what order.
//
// Closure expands a set of seed keys with their transitive dependencies.
// TopologicalOrder then orders the result so that every unit follows its
// dependencies, ties broken by declaration order: the output is exactly the
// declaration order whenever that order already satisfies the dependencies.
package scheduler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/m8s-dev/m8s/pkg/errors"
	"github.com/m8s-dev/m8s/pkg/unit"
)

// Closure returns the sub-mapping of units reachable from seeds, following
// dependsOn edges only when includeDependencies is set. The result keeps
// declaration order. Seeds that are not keys of units are ignored.
func Closure(units *unit.Units, seeds []string, includeDependencies bool) *unit.Units {
	selected := make(map[string]bool, len(seeds))

	stack := append([]string(nil), seeds...)
	for len(stack) > 0 {
		key := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if selected[key] {
			continue
		}
		entry, ok := units.Get(key)
		if !ok {
			continue
		}
		selected[key] = true

		if includeDependencies {
			stack = append(stack, entry.DependsOn...)
		}
	}

	return units.Filter(func(key string) bool { return selected[key] })
}

// TopologicalOrder reorders units so that, when includeDependencies is set,
// every unit comes after all of its dependencies. Each pass appends, in
// declaration order, every unit whose dependencies are already placed.
//
// Dependencies outside units are never satisfied; a pass that places
// nothing returns an INTERNAL error naming the stuck units.
func TopologicalOrder(units *unit.Units, includeDependencies bool) (*unit.Units, error) {
	ordered := &unit.Units{}
	placed := make(map[string]bool, units.Len())

	for pass := 1; ordered.Len() < units.Len(); pass++ {
		progressed := false
		for key, entry := range units.All() {
			if placed[key] {
				continue
			}
			if includeDependencies && !allPlaced(entry.DependsOn, placed) {
				continue
			}
			ordered.Add(key, entry)
			placed[key] = true
			progressed = true
		}

		if !progressed {
			var pending []string
			for _, key := range units.Keys() {
				if !placed[key] {
					pending = append(pending, key)
				}
			}
			return nil, errors.New(errors.ErrCodeInternal,
				fmt.Sprintf("unable to order units, dependencies never satisfied for: %s", strings.Join(pending, ", ")))
		}
		slog.Debug("scheduling pass", "pass", pass, "placed", ordered.Len(), "total", units.Len())
	}

	return ordered, nil
}

// Order returns the units to run for seeds, in execution order.
func Order(units *unit.Units, seeds []string, includeDependencies bool) (*unit.Units, error) {
	return TopologicalOrder(Closure(units, seeds, includeDependencies), includeDependencies)
}

func allPlaced(keys []string, placed map[string]bool) bool {
	for _, k := range keys {
		if !placed[k] {
			return false
		}
	}
	return true
}
