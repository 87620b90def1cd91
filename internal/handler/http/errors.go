// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Request validation errors of the feed routes. Callers can match against
// them with [errors.Is].
var (
	// ErrInvalidAfter is returned when the "after" query parameter is not a
	// non-negative integer.
	ErrInvalidAfter = errors.New("invalid `after` parameter")

	// ErrInvalidBody is returned when a request body cannot be decoded.
	ErrInvalidBody = errors.New("invalid request body")

	// ErrInvalidOnlineFlag is returned by the health toggle for a value
	// that is not a boolean.
	ErrInvalidOnlineFlag = errors.New("invalid `online` parameter")
)
