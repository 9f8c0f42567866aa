package defaults

import "time"

// Configuration file defaults.
const (
	// ConfigFileName is the configuration file read when --file is not given.
	ConfigFileName = "m8s.yaml"
)

// Kubernetes timeouts.
const (
	// KubeAPITimeout bounds the preflight checks against the API server.
	KubeAPITimeout = 30 * time.Second
)

// Process runner defaults.
const (
	// OutputReadBufferBytes sizes the reader of each child output stream.
	// Lines longer than the buffer are still read whole.
	OutputReadBufferBytes = 64 * 1024

	// HelmBinary and KubectlBinary are resolved on PATH.
	HelmBinary    = "helm"
	KubectlBinary = "kubectl"
	ShellBinary   = "bash"
)
