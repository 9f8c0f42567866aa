/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package executor walks a validated unit tree and runs the selected units
// in dependency order.
//
// # Flow
//
// For every scope, starting at the root:
//
//  1. Resolve the selector tokens against the scope's keys
//  2. Expand the selection with dependencies and order it (package scheduler)
//  3. Run each unit in order; a Group recurses with the part of the
//     selector that addresses its children
//
// Units run one at a time. The first failure stops the whole run and is
// returned wrapped with the unit's full path, for example
// `running unit "monitoring:crds" failed: ...`. Nothing is rolled back.
//
// # Usage
//
//	r := runner.New(runner.WithDryRun(true))
//	e := executor.New(r, executor.WithObserver(func(s executor.Step) {
//	    fmt.Println(s.Path())
//	}))
//	err := e.Run(ctx, cfg.Units, []string{"monitoring:crds"}, true)
package executor
