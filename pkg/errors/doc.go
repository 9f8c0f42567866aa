/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package errors provides structured errors with machine-readable codes.
//
// Every failure that reaches the command line carries an ErrorCode so callers
// can branch on the category of failure without parsing messages:
//
//	if se, ok := errors.AsStructured(err); ok && se.Code == errors.ErrCodeInvalidConfig {
//	    // configuration problem
//	}
//
// Errors wrap their cause and participate in the standard errors.Is and
// errors.As chain through Unwrap.
package errors
