package signal

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitFor читает из канала, пока не встретит want или не истечёт таймаут.
func waitFor[T comparable](t *testing.T, ch <-chan T, want T) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case v, ok := <-ch:
			require.True(t, ok, "channel closed before %v was observed", want)
			if v == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %v", want)
		}
	}
}

// ── State ────────────────────────────────────────────────────────────────────

func TestState_ObserveDeliversCurrentValue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewState(7)
	ch := s.Observe(ctx)

	assert.Equal(t, 7, <-ch)
}

func TestState_SetNotifiesObservers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewState("a")
	ch := s.Observe(ctx)
	waitFor(t, ch, "a")

	s.Set("b")
	waitFor(t, ch, "b")
	assert.Equal(t, "b", s.Get())
}

func TestState_SlowObserverGetsLatestValue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewState(0)
	ch := s.Observe(ctx)

	// никто не читает: промежуточные значения схлопываются
	s.Set(1)
	s.Set(2)
	s.Set(3)

	assert.Equal(t, 3, <-ch)
}

func TestState_Update(t *testing.T) {
	s := NewState(10)
	got := s.Update(func(v int) int { return v + 5 })

	assert.Equal(t, 15, got)
	assert.Equal(t, 15, s.Get())
}

func TestState_ObserveClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewState(1)
	ch := s.Observe(ctx)
	<-ch

	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	require.Eventually(t, func() bool { return s.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
}

// ── Combine2 / Map ───────────────────────────────────────────────────────────

func TestCombine2_RecomputesOnAnyChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := NewState(1)
	b := NewState("x")
	c := Combine2[int, string, string](a, b, func(n int, s string) string {
		return fmt.Sprintf("%d%s", n, s)
	})

	ch := c.Observe(ctx)
	waitFor(t, ch, "1x")

	a.Set(2)
	waitFor(t, ch, "2x")

	b.Set("y")
	waitFor(t, ch, "2y")
}

func TestCombine2_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	a := NewState(1)
	b := NewState(2)
	ch := Combine2[int, int, int](a, b, func(x, y int) int { return x + y }).Observe(ctx)
	waitFor(t, ch, 3)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestCombine3_RecomputesOnAnyChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := NewState(1)
	b := NewState(true)
	c := NewState("x")
	ch := Combine3[int, bool, string, string](a, b, c, func(n int, ok bool, s string) string {
		return fmt.Sprintf("%d%t%s", n, ok, s)
	}).Observe(ctx)
	waitFor(t, ch, "1truex")

	b.Set(false)
	waitFor(t, ch, "1falsex")

	c.Set("y")
	waitFor(t, ch, "1falsey")
}

func TestMap(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewState(2)
	ch := Map[int, int](s, func(v int) int { return v * v }).Observe(ctx)
	waitFor(t, ch, 4)

	s.Set(3)
	waitFor(t, ch, 9)
}

// ── Shared ───────────────────────────────────────────────────────────────────

func TestShared_StartsUpstreamOnFirstSubscriber(t *testing.T) {
	up := NewState(5)
	sh := Share[int](up, 0, 20*time.Millisecond)

	assert.False(t, sh.Active())
	assert.Equal(t, 0, up.Subscribers())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := sh.Observe(ctx)
	assert.True(t, sh.Active())
	waitFor(t, ch, 5)

	up.Set(6)
	waitFor(t, ch, 6)
}

func TestShared_StopsAfterLinger(t *testing.T) {
	up := NewState(1)
	sh := Share[int](up, 0, 30*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	waitFor(t, sh.Observe(ctx), 1)
	cancel()

	require.Eventually(t, func() bool { return !sh.Active() }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return up.Subscribers() == 0 }, time.Second, 5*time.Millisecond)

	// последнее значение сохраняется
	assert.Equal(t, 1, sh.Value())
}

func TestShared_ResubscribeWithinLingerKeepsUpstream(t *testing.T) {
	up := NewState(1)
	sh := Share[int](up, 0, 200*time.Millisecond)

	ctx1, cancel1 := context.WithCancel(context.Background())
	waitFor(t, sh.Observe(ctx1), 1)
	cancel1()

	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	ch := sh.Observe(ctx2)

	time.Sleep(300 * time.Millisecond)
	assert.True(t, sh.Active())

	up.Set(2)
	waitFor(t, ch, 2)
}
