/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package header holds the Kubernetes-style envelope of documents m8s prints.
package header

import (
	"time"
)

const (
	APIGroup     = "m8s.dev"
	APIVersionV1 = "v1"

	// Metadata keys.
	KeyVersion   = "m8s-version"
	KeyTimestamp = "generated-at"
)

// Header identifies a printed document.
type Header struct {
	Kind       string            `json:"kind" yaml:"kind"`
	APIVersion string            `json:"apiVersion" yaml:"apiVersion"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata adds a metadata entry.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithVersion records the m8s version that produced the document.
func WithVersion(version string) Option {
	return WithMetadata(KeyVersion, version)
}

// WithTimestamp records when the document was produced, in UTC.
func WithTimestamp(t time.Time) Option {
	return WithMetadata(KeyTimestamp, t.UTC().Format(time.RFC3339))
}

// New returns the header of a kind document in the current API version.
func New(kind string, opts ...Option) Header {
	h := Header{
		Kind:       kind,
		APIVersion: APIGroup + "/" + APIVersionV1,
	}
	for _, opt := range opts {
		opt(&h)
	}
	return h
}
