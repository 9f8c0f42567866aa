/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"os"

	"github.com/m8s-dev/m8s/pkg/unit"
)

// CheckFilesExist fails when a manifest or values file is not a regular
// file, or a local chart path is not a directory. Paths are checked as
// stored, so Load must have resolved them already.
func CheckFilesExist(units *unit.Units) error {
	return checkFilesExist(units, os.Stat)
}

func checkFilesExist(units *unit.Units, stat StatFunc) error {
	isFile := func(path string) bool {
		info, err := stat(path)
		return err == nil && info.Mode().IsRegular()
	}
	isDir := func(path string) bool {
		info, err := stat(path)
		return err == nil && info.IsDir()
	}

	return units.Walk(func(_, key string, entry *unit.Entry) error {
		var files []string
		switch s := entry.Spec.(type) {
		case *unit.Manifest:
			files = []string{s.Path}
		case *unit.HelmRemote:
			files = s.Values
		case *unit.HelmLocal:
			if !isDir(s.ChartPath) {
				return invalid("unit %q references directory that doesn't exist: %s", key, s.ChartPath)
			}
			files = s.Values
		}

		for _, f := range files {
			if !isFile(f) {
				return invalid("unit %q references file that doesn't exist: %s", key, f)
			}
		}
		return nil
	})
}
