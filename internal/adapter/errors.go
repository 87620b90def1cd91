package adapter

import "errors"

var (
	// ErrRemoteUnavailable is a transient condition: the feed could not be
	// reached, answered 5xx or 429, or did not answer within the deadline.
	ErrRemoteUnavailable = errors.New("remote unavailable")

	ErrBadRequest        = errors.New("bad request")
	ErrNotFound          = errors.New("not found")
	ErrUnexpectedStatus  = errors.New("unexpected status")
	ErrMalformedResponse = errors.New("malformed response")
)
