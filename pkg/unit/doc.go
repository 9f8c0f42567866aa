/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package unit defines the deployment unit tree read from an m8s
// configuration file.
//
// A configuration is an ordered mapping of unit keys to entries. Each entry
// carries exactly one Spec variant plus an optional list of dependencies
// naming sibling units:
//
//	helmRepositories:
//	  - name: bitnami
//	    url: https://charts.bitnami.com/bitnami
//	units:
//	  namespace:
//	    manifest:
//	      path: namespace.yaml
//	  database:
//	    dependsOn: [namespace]
//	    helmRemote:
//	      name: db
//	      namespace: apps
//	      chartName: bitnami/postgresql
//	      chartVersion: 12.1.0
//	  monitoring:
//	    group:
//	      crds:
//	        manifest:
//	          path: crds
//
// The Spec variants are Noop, Shell, Manifest, HelmRemote, HelmLocal and
// Group. Group nests another ordered mapping; dependencies never cross a
// group boundary.
//
// Declaration order is preserved at every level. It decides execution order
// among units whose dependencies are already satisfied.
//
// Load reads a file, rewrites every relative path so that it is resolved
// against the configuration file's directory, and records a digest of the
// raw bytes. Validation lives in package validator.
package unit
