// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-news-sync/internal/adapter"
)

// mapRemoteError normalises an error of a single remote call. parent is the
// run context; a deadline hit by the per-call timeout while parent is still
// alive counts as the remote being unavailable.
func mapRemoteError(parent context.Context, err error) error {
	if err == nil {
		return nil
	}
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, adapter.ErrRemoteUnavailable) {
		return fmt.Errorf("%w: call timed out: %w", adapter.ErrRemoteUnavailable, err)
	}
	return err
}

// isRetryable reports whether a remote error should be retried with backoff.
// Bad requests, missing routes and malformed payloads will not improve by
// asking again.
func isRetryable(err error) bool {
	return errors.Is(err, adapter.ErrRemoteUnavailable)
}

// isCancellation reports whether the run stopped because its own context
// ended, which is not a failure worth telling the user about.
func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}
