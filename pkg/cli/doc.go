/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the m8s command-line interface.
//
// # Overview
//
// m8s deploys a tree of units (shell commands, kubectl manifests and Helm
// charts) described in a YAML file, in dependency order, against the
// cluster of the current kubeconfig context.
//
// # Commands
//
// up - Deploy units:
//
//	m8s up [UNITS...] [--file m8s.yaml] [-C DIR] [--kubeconfig FILE]
//	m8s up cert-manager monitoring:grafana --no-dependencies
//	m8s up --no-units           # only add and update Helm repositories
//	m8s up --dry-run -v         # log what would run
//
// Validates the configuration, adds the Helm repositories it declares and
// runs the selected units. With no UNITS every root unit runs. A token
// addresses a root unit by key, or a unit nested in groups with a colon
// separated path (group:subgroup:key).
//
// plan - Print the ordered steps of an up run without running them:
//
//	m8s plan [UNITS...] [--format yaml|json|table] [--output FILE]
//
// graph - Print the dependency graph of a scope in Graphviz DOT:
//
//	m8s graph [--group monitoring] | dot -Tsvg > units.svg
//
// # Global Flags
//
//	--debug, -v    Enable debug logging (also LOG_LEVEL)
//	--log-json     Output logs in JSON format
//	--help, -h     Show command help
//	--version      Show version information
//
// # Exit Status
//
// 0 on success. On failure the error is logged with its code
// (INVALID_CONFIG, INVALID_REQUEST, NOT_FOUND, EXECUTION_FAILED, ...) and
// the process exits with 1.
package cli
