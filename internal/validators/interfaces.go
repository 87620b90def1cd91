// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks feed payloads before they enter the change feed.
//
// A [Validator] accepts any supported value and optionally a list of field
// names restricting which rules run.
package validators

import "context"

// Validator validates a value, optionally restricted to the named fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
