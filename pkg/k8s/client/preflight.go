/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package client

import (
	"context"
	"fmt"
	"log/slog"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/m8s-dev/m8s/pkg/defaults"
	"github.com/m8s-dev/m8s/pkg/errors"
)

// PreflightResult summarises a preflight run.
type PreflightResult struct {
	ServerVersion     string
	MissingNamespaces []string
}

// Preflight checks that the API server answers and reports which of
// namespaces do not exist yet. Missing namespaces are reported rather than
// failed, since an earlier unit may create them.
func Preflight(ctx context.Context, cs kubernetes.Interface, namespaces []string) (*PreflightResult, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.KubeAPITimeout)
	defer cancel()

	version, err := cs.Discovery().ServerVersion()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "kubernetes API server is not reachable", err)
	}

	result := &PreflightResult{ServerVersion: version.GitVersion}
	for _, ns := range namespaces {
		_, err := cs.CoreV1().Namespaces().Get(ctx, ns, metav1.GetOptions{})
		switch {
		case err == nil:
		case apierrors.IsNotFound(err):
			result.MissingNamespaces = append(result.MissingNamespaces, ns)
		default:
			return nil, errors.WrapWithContext(errors.ErrCodeUnavailable,
				fmt.Sprintf("failed to look up namespace %q", ns), err,
				map[string]any{"namespace": ns})
		}
	}

	slog.Debug("preflight completed",
		"serverVersion", result.ServerVersion,
		"namespaces", len(namespaces),
		"missing", len(result.MissingNamespaces))

	return result, nil
}
