package signal

import "context"

type combined[A, B, R any] struct {
	a  Source[A]
	b  Source[B]
	fn func(A, B) R
}

// Combine2 returns a [Source] that emits fn(a, b) once both inputs have
// produced a value and again every time either input changes. The stream
// ends when ctx is done or when any input stream closes.
func Combine2[A, B, R any](a Source[A], b Source[B], fn func(A, B) R) Source[R] {
	return &combined[A, B, R]{a: a, b: b, fn: fn}
}

func (c *combined[A, B, R]) Observe(ctx context.Context) <-chan R {
	out := make(chan R, 1)
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(out)
		defer cancel()

		aCh := c.a.Observe(ctx)
		bCh := c.b.Observe(ctx)

		var (
			lastA A
			lastB B
			haveA bool
			haveB bool
		)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-aCh:
				if !ok {
					return
				}
				lastA, haveA = v, true
			case v, ok := <-bCh:
				if !ok {
					return
				}
				lastB, haveB = v, true
			}
			if haveA && haveB {
				offer(out, c.fn(lastA, lastB))
			}
		}
	}()

	return out
}

type mapped[T, R any] struct {
	src Source[T]
	fn  func(T) R
}

// Map returns a [Source] emitting fn applied to every value of src.
func Map[T, R any](src Source[T], fn func(T) R) Source[R] {
	return &mapped[T, R]{src: src, fn: fn}
}

func (m *mapped[T, R]) Observe(ctx context.Context) <-chan R {
	out := make(chan R, 1)
	in := m.src.Observe(ctx)
	go func() {
		defer close(out)
		for v := range in {
			offer(out, m.fn(v))
		}
	}()
	return out
}

type pair[A, B any] struct {
	a A
	b B
}

// Combine3 is [Combine2] over three inputs.
func Combine3[A, B, C, R any](a Source[A], b Source[B], c Source[C], fn func(A, B, C) R) Source[R] {
	ab := Combine2(a, b, func(x A, y B) pair[A, B] { return pair[A, B]{a: x, b: y} })
	return Combine2(ab, c, func(p pair[A, B], z C) R { return fn(p.a, p.b, z) })
}
