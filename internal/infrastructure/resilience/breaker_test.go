package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(threshold int, cooldown time.Duration) (*Breaker, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	b := New("bridge", Settings{
		FailureThreshold: threshold,
		Cooldown:         cooldown,
		now:              clock.Now,
	})
	return b, clock
}

var errBoom = errors.New("boom")

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		threshold     int
		requests      []bool // true = success, false = failure
		expectedState State
	}{
		{"stays closed on successes", 3, []bool{true, true, true}, StateClosed},
		{"opens after consecutive failures", 3, []bool{false, false, false}, StateOpen},
		{"success resets the streak", 3, []bool{false, false, true, false, false}, StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBreaker(tt.threshold, time.Minute)

			for _, ok := range tt.requests {
				_ = b.Call(func() error {
					if ok {
						return nil
					}
					return errBoom
				})
			}

			assert.Equal(t, tt.expectedState, b.State())
		})
	}
}

func TestBreakerRejectsWhileOpen(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute)

	_ = b.Call(func() error { return errBoom })
	_ = b.Call(func() error { return errBoom })

	called := false
	err := b.Call(func() error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	t.Run("successful probe closes", func(t *testing.T) {
		b, clock := newTestBreaker(1, time.Minute)
		_ = b.Call(func() error { return errBoom })
		require.Equal(t, StateOpen, b.State())

		clock.Advance(time.Minute)
		assert.Equal(t, StateHalfOpen, b.State())

		require.NoError(t, b.Call(func() error { return nil }))
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("failed probe re-opens", func(t *testing.T) {
		b, clock := newTestBreaker(1, time.Minute)
		_ = b.Call(func() error { return errBoom })

		clock.Advance(time.Minute)
		assert.ErrorIs(t, b.Call(func() error { return errBoom }), errBoom)
		assert.Equal(t, StateOpen, b.State())
	})

	t.Run("only one probe at a time", func(t *testing.T) {
		b, clock := newTestBreaker(1, time.Minute)
		_ = b.Call(func() error { return errBoom })
		clock.Advance(time.Minute)

		release := make(chan struct{})
		done := make(chan error)
		go func() {
			done <- b.Call(func() error {
				<-release
				return nil
			})
		}()

		assert.Eventually(t, func() bool {
			b.mu.Lock()
			defer b.mu.Unlock()
			return b.probeActive
		}, time.Second, time.Millisecond)

		assert.ErrorIs(t, b.Call(func() error { return nil }), ErrCircuitOpen)

		close(release)
		require.NoError(t, <-done)
		assert.Equal(t, StateClosed, b.State())
	})
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	b, _ := newTestBreaker(1, time.Minute)

	err := b.Call(func() error { return context.Canceled })

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, b.State())
}

func TestDoReturnsResult(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	n, err := Do(b, func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestBreakerCallbacks(t *testing.T) {
	var mu sync.Mutex
	var transitions []string

	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	b := New("bridge", Settings{
		FailureThreshold: 1,
		Cooldown:         time.Second,
		now:              clock.Now,
		OnStateChange: func(name string, from, to State) {
			mu.Lock()
			transitions = append(transitions, from.String()+"->"+to.String())
			mu.Unlock()
		},
	})

	_ = b.Call(func() error { return errBoom })
	clock.Advance(time.Second)
	require.NoError(t, b.Call(func() error { return nil }))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(transitions) == 3
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, transitions, "closed->open")
	assert.Contains(t, transitions, "open->half-open")
	assert.Contains(t, transitions, "half-open->closed")
}
