package service

import "errors"

var (
	// ErrDataInconsistency is returned under the stall policy when the feed
	// references ids the remote cannot resolve.
	ErrDataInconsistency = errors.New("data inconsistency: referenced entities are missing")

	// ErrRetriesExhausted wraps the last remote error once the retry budget
	// is spent.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrLoadingCheckpoint is returned when the stored checkpoint cannot be
	// read.
	ErrLoadingCheckpoint = errors.New("failed to load checkpoint")
)
