/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package selector turns unit selector arguments into per-scope selections.
//
// A selector token is either a bare key ("database") or a qualified path
// into a group ("monitoring:crds"). Tokens are split on the first colon
// only; the remainder is handed down to the group when the executor
// recurses into it.
//
// Naming a group bare selects the whole group and forces dependency
// resolution inside it, since the group was asked for as a unit. Naming
// it qualified selects only the named children and keeps the caller's
// dependency policy.
package selector
