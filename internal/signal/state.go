package signal

import (
	"context"
	"sync"
)

// State is an observable value holder. The zero value is not usable; create
// instances with [NewState].
type State[T any] struct {
	mu    sync.Mutex
	value T
	subs  map[chan T]struct{}
}

func NewState[T any](initial T) *State[T] {
	return &State[T]{
		value: initial,
		subs:  make(map[chan T]struct{}),
	}
}

// Get returns the current value.
func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the current value and notifies observers.
func (s *State[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	s.notifyLocked()
}

// Update atomically replaces the value with fn(current) and returns the new
// value. fn must not call back into s.
func (s *State[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = fn(s.value)
	s.notifyLocked()
	return s.value
}

// Observe implements [Source]. The current value is delivered immediately.
func (s *State[T]) Observe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	ch <- s.value
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// Subscribers returns the number of live observers.
func (s *State[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *State[T]) notifyLocked() {
	for ch := range s.subs {
		offer(ch, s.value)
	}
}

// offer puts v into a buffered channel of size one, replacing a value the
// reader has not picked up yet. Only one goroutine may send on ch.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}
