/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package validator checks that a unit tree is well-formed before anything
// is executed against a cluster.
//
// # Overview
//
// Validation runs a fixed sequence of independent checks and stops at the
// first failure. The order is part of the contract: callers and users rely
// on a config with several problems always reporting the same one first.
//
//  1. Key format: every key at every depth matches [a-zA-Z0-9]+
//  2. Duplicate keys: keys are unique across the whole tree
//  3. Dependency references: every dependsOn entry names a sibling
//  4. Cycles: no scope contains a dependency cycle
//  5. Files: manifests and values files exist, local chart paths are directories
//  6. Helm repositories: every remote chart names a configured repository
//
// # Usage
//
//	v := validator.New()
//	if err := v.Validate(ctx, cfg); err != nil {
//	    return err
//	}
//
// Each check is also exported on its own. Every failure is an
// errors.StructuredError with code INVALID_CONFIG and a message starting
// with "configuration is invalid, ".
package validator
