/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"strings"

	"github.com/m8s-dev/m8s/pkg/unit"
)

// CheckHelmRemoteRepositories fails when a remote chart name is not of the
// form repository/chart, or names a repository that is not configured.
// A nil repositories slice means the configuration declares none.
func CheckHelmRemoteRepositories(units *unit.Units, repositories []unit.HelmRepository) error {
	names := make([]string, 0, len(repositories))
	for _, r := range repositories {
		names = append(names, r.Name)
	}

	return units.Walk(func(_, key string, entry *unit.Entry) error {
		hr, ok := entry.Spec.(*unit.HelmRemote)
		if !ok {
			return nil
		}

		alias, _, found := strings.Cut(hr.ChartName, "/")
		if !found {
			return invalid("unit %q: chart name %q doesn't start with a repository name", key, hr.ChartName)
		}
		if repositories == nil {
			return invalid("unit %q: no repositories configured", key)
		}
		for _, name := range names {
			if name == alias {
				return nil
			}
		}
		return invalid("unit %q: repository with name %q doesn't exist, valid names are: [%s]",
			key, alias, strings.Join(names, ", "))
	})
}
