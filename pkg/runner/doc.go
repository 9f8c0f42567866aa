/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package runner executes deployment units as external processes.
//
// Each unit type maps to one command line:
//
//	shell       bash -c <input>
//	manifest    kubectl apply -f <path>
//	helmRemote  helm install|upgrade <name> <repo/chart> --version <v> --namespace <ns> [-f <values>]...
//	helmLocal   helm install|upgrade <name> <chartPath> --namespace <ns> [-f <values>]...
//
// Helm units first list the releases of their namespace and upgrade when a
// release with the same name already exists there.
//
// The child's stdout and stderr are echoed line by line as they arrive and
// buffered at the same time. When the process exits non-zero, the buffered
// stderr becomes the error message.
//
// In dry-run mode nothing is spawned: commands are logged and reported as
// successful, and Helm units always choose install.
//
// Processes are created through k8s.io/utils/exec so tests can script them:
//
//	r := runner.New(runner.WithExec(fakeExec), runner.WithKubeconfig("/tmp/kubeconfig"))
//	err := r.Manifest(ctx, &unit.Manifest{Path: "ns.yaml"})
package runner
