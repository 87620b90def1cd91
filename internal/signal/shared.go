package signal

import (
	"context"
	"sync"
	"time"
)

// Shared multicasts an upstream [Source] to any number of observers. The
// upstream is observed from the first subscription until linger has passed
// since the last observer left. Observers joining while the upstream is idle
// get the last known value, or the initial one.
type Shared[T any] struct {
	upstream Source[T]
	linger   time.Duration
	state    *State[T]

	mu          sync.Mutex
	subscribers int
	generation  uint64
	cancel      context.CancelFunc
	timer       *time.Timer
}

// Share wraps upstream into a [Shared] source with the given initial value
// and linger period.
func Share[T any](upstream Source[T], initial T, linger time.Duration) *Shared[T] {
	return &Shared[T]{
		upstream: upstream,
		linger:   linger,
		state:    NewState(initial),
	}
}

// Observe implements [Source].
func (s *Shared[T]) Observe(ctx context.Context) <-chan T {
	s.acquire()
	out := s.state.Observe(ctx)
	go func() {
		<-ctx.Done()
		s.release()
	}()
	return out
}

// Value returns the last value seen from upstream.
func (s *Shared[T]) Value() T {
	return s.state.Get()
}

// Active reports whether the upstream is currently being observed.
func (s *Shared[T]) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Shared[T]) acquire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers++
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		return
	}

	upCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	in := s.upstream.Observe(upCtx)
	go func() {
		for v := range in {
			s.state.Set(v)
		}
	}()
}

func (s *Shared[T]) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers--
	if s.subscribers > 0 {
		return
	}

	gen := s.generation
	if s.linger <= 0 {
		s.stopLocked()
		return
	}
	s.timer = time.AfterFunc(s.linger, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation == gen && s.subscribers == 0 {
			s.stopLocked()
		}
	})
}

func (s *Shared[T]) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.timer = nil
}
