// Package defaults provides centralized configuration constants for m8s.
//
// This package defines file names, timeouts, and buffer sizes used across
// the codebase. Centralizing these values ensures consistency between the
// command line, the process runner and the cluster preflight.
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/m8s-dev/m8s/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.KubeAPITimeout)
//	defer cancel()
//
// # Guidelines
//
//   - Preflight: 30s for the whole cluster check
//   - Process output: lines up to 1MiB are echoed intact
package defaults
