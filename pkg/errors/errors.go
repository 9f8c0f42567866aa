/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode is a machine-readable failure category.
type ErrorCode string

const (
	// ErrCodeInvalidConfig marks a configuration that failed validation or parsing.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeInvalidRequest marks bad command line usage or an unresolvable selector.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeNotFound marks a missing file or resource.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeExecutionFailed marks an external command that exited non-zero.
	ErrCodeExecutionFailed ErrorCode = "EXECUTION_FAILED"
	// ErrCodeUnavailable marks an unreachable cluster or missing binary.
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"
	// ErrCodeTimeout marks a cancelled or expired context.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal marks a broken internal invariant.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError is an error with a code, a human message, an optional
// cause and optional key/value context for logging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements error.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the cause.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a StructuredError without a cause.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// Wrap creates a StructuredError around cause.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// WrapWithContext creates a StructuredError around cause with extra context.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause, Context: context}
}

// AsStructured returns the first StructuredError in err's chain.
func AsStructured(err error) (*StructuredError, bool) {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// CodeOf returns the code of the first StructuredError in err's chain,
// or fallback when there is none.
func CodeOf(err error, fallback ErrorCode) ErrorCode {
	if se, ok := AsStructured(err); ok {
		return se.Code
	}
	return fallback
}

// LogAttrs flattens the error into key/value pairs suitable for slog.
func LogAttrs(err error) []any {
	se, ok := AsStructured(err)
	if !ok {
		return []any{"error", err}
	}
	attrs := []any{"code", string(se.Code), "error", err.Error()}
	for k, v := range se.Context {
		attrs = append(attrs, k, v)
	}
	return attrs
}
