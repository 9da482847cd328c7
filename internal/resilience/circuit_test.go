package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(settings Settings) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := NewBreaker("redis", settings)
	b.now = clock.now
	return b, clock
}

func TestBreakerTransitions(t *testing.T) {
	breaker, clock := newTestBreaker(Settings{MinRequests: 2, FailureRatio: 0.5, OpenFor: time.Second})
	ctx := context.Background()

	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)
	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)

	require.Equal(t, Open, breaker.State())
	require.False(t, breaker.Allow(ctx), "breaker should open after threshold exceeded")

	clock.advance(time.Second)
	require.True(t, breaker.Allow(ctx), "breaker should move to half-open after cool off")
	require.False(t, breaker.Allow(ctx), "only one probe while half-open")
	breaker.Report(ctx, true)
	require.Equal(t, Closed, breaker.State())
	require.True(t, breaker.Allow(ctx))
}

func TestBreakerFailedProbeReopens(t *testing.T) {
	breaker, clock := newTestBreaker(Settings{MinRequests: 1, OpenFor: time.Second})
	ctx := context.Background()

	breaker.Report(ctx, false)
	clock.advance(time.Second)
	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)
	require.Equal(t, Open, breaker.State())
	require.False(t, breaker.Allow(ctx))
}

func TestBreakerDo(t *testing.T) {
	breaker, _ := newTestBreaker(Settings{MinRequests: 1, OpenFor: time.Minute})
	ctx := context.Background()
	boom := errors.New("boom")

	require.ErrorIs(t, breaker.Do(ctx, func(context.Context) error { return boom }), boom)

	called := false
	err := breaker.Do(ctx, func(context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrOpenCircuit)
	require.False(t, called)
}

func TestBreakerDoIgnoresCancellation(t *testing.T) {
	breaker, _ := newTestBreaker(Settings{MinRequests: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := breaker.Do(ctx, func(ctx context.Context) error { return ctx.Err() })
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, Closed, breaker.State())
}

func TestBreakerCancelledProbeDoesNotClose(t *testing.T) {
	breaker, clock := newTestBreaker(Settings{MinRequests: 1, OpenFor: time.Second})
	bg := context.Background()

	breaker.Report(bg, false)
	require.Equal(t, Open, breaker.State())
	clock.advance(time.Second)

	ctx, cancel := context.WithCancel(bg)
	err := breaker.Do(ctx, func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, Open, breaker.State())

	// the cool-off already elapsed, so the next call is admitted as a fresh probe
	called := false
	require.NoError(t, breaker.Do(bg, func(context.Context) error {
		called = true
		return nil
	}))
	require.True(t, called)
	require.Equal(t, Closed, breaker.State())
}

func TestBreakerCancelledCallsDoNotCount(t *testing.T) {
	breaker, _ := newTestBreaker(Settings{MinRequests: 2, FailureRatio: 0.5, OpenFor: time.Second})
	bg := context.Background()
	boom := errors.New("boom")

	ctx, cancel := context.WithCancel(bg)
	cancel()
	require.ErrorIs(t, breaker.Do(ctx, func(ctx context.Context) error { return ctx.Err() }), context.Canceled)
	require.ErrorIs(t, breaker.Do(bg, func(context.Context) error { return boom }), boom)
	require.Equal(t, Closed, breaker.State(), "one failure is below MinRequests")

	require.ErrorIs(t, breaker.Do(bg, func(context.Context) error { return boom }), boom)
	require.Equal(t, Open, breaker.State())
}
