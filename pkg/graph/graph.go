/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package graph renders one scope of a unit tree as a Graphviz digraph.
// Edges point from a dependency to the unit that depends on it, so the
// drawing reads in execution order.
package graph

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/m8s-dev/m8s/pkg/errors"
	"github.com/m8s-dev/m8s/pkg/unit"
)

// Build creates the dependency graph of units. Vertices are unit keys.
func Build(units *unit.Units) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	for key, entry := range units.All() {
		attrs := map[string]string{"label": fmt.Sprintf("%s (%s)", key, entry.Spec.Type())}
		if _, ok := entry.Spec.(*unit.Group); ok {
			attrs["shape"] = "box"
		}
		if err := g.AddVertex(key, graph.VertexAttributes(attrs)); err != nil {
			if stderrors.Is(err, graph.ErrVertexAlreadyExists) {
				return nil, errors.New(errors.ErrCodeInvalidConfig, fmt.Sprintf("duplicate unit key %q", key))
			}
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to add vertex", err)
		}
	}

	for key, entry := range units.All() {
		for _, dep := range entry.DependsOn {
			if err := g.AddEdge(dep, key); err != nil {
				switch {
				case stderrors.Is(err, graph.ErrEdgeCreatesCycle):
					return nil, errors.New(errors.ErrCodeInvalidConfig,
						fmt.Sprintf("dependency %q of %q creates a cycle", dep, key))
				case stderrors.Is(err, graph.ErrEdgeAlreadyExists):
					continue
				default:
					return nil, errors.Wrap(errors.ErrCodeInvalidConfig,
						fmt.Sprintf("invalid dependency %q of %q", dep, key), err)
				}
			}
		}
	}

	return g, nil
}

// WriteDOT writes the DOT rendering of units to w. name labels the graph.
func WriteDOT(w io.Writer, name string, units *unit.Units) error {
	g, err := Build(units)
	if err != nil {
		return err
	}
	return draw.DOT(g, w, draw.GraphAttribute("label", name))
}
