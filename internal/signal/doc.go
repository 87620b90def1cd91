// Package signal provides small observable primitives used to compose
// process-wide state without global mutable flows.
//
// [State] holds a single value and pushes every change to its observers.
// Observers receive a conflated stream: a slow reader skips intermediate
// values and always ends up with the latest one. [Combine2] recomputes a
// derived value whenever any of its inputs changes, and [Share] keeps an
// upstream subscription alive only while somebody is watching, plus a
// configurable linger period after the last observer leaves.
package signal

import "context"

// Source is anything that can be observed as a conflated stream of values.
// The returned channel is closed when ctx is done.
type Source[T any] interface {
	Observe(ctx context.Context) <-chan T
}
