// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	errNoAddress = errors.New("feed server address is not configured")
	errNoHandler = errors.New("feed server has no handler")
)
