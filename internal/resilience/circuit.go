package resilience

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// ErrOpenCircuit is returned when the circuit breaker refuses a call.
var ErrOpenCircuit = errors.New("resilience: circuit breaker open")

// State represents the current breaker state.
type State int

const (
	// Closed accepts all calls and tracks failures.
	Closed State = iota
	// Open rejects calls until the cool-off period expires.
	Open
	// HalfOpen lets a single probe through to determine recovery.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Settings tune when a breaker trips.
type Settings struct {
	MinRequests  int
	FailureRatio float64
	OpenFor      time.Duration
}

func (s Settings) normalized() Settings {
	if s.MinRequests <= 0 {
		s.MinRequests = 1
	}
	if s.FailureRatio <= 0 {
		s.FailureRatio = 0.5
	}
	if s.FailureRatio > 1 {
		s.FailureRatio = 1
	}
	if s.OpenFor <= 0 {
		s.OpenFor = 30 * time.Second
	}
	return s
}

// Breaker is a failure-ratio circuit breaker guarding one dependency.
type Breaker struct {
	mu        sync.Mutex
	settings  Settings
	state     State
	failures  int
	successes int
	openedAt  time.Time
	target    string
	logger    zerolog.Logger
	now       func() time.Time
}

// NewBreaker constructs a breaker for target. It opens once MinRequests outcomes are observed
// and the failure ratio reaches FailureRatio.
func NewBreaker(target string, settings Settings) *Breaker {
	b := &Breaker{
		settings: settings.normalized(),
		state:    Closed,
		target:   strings.TrimSpace(target),
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	b.recordStateLocked()
	return b
}

// WithLogger configures the logger used for transition events.
func (b *Breaker) WithLogger(logger zerolog.Logger) *Breaker {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logger = logger
	return b
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether a call is permitted. After the cool-off an open breaker moves to
// half-open and admits one probe.
func (b *Breaker) Allow(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		if b.now().Sub(b.openedAt) >= b.settings.OpenFor {
			b.changeStateLocked(ctx, HalfOpen)
			return true
		}
		return false
	case HalfOpen:
		// a probe is already in flight
		return false
	default:
		return true
	}
}

// Report records the outcome of an admitted call.
func (b *Breaker) Report(ctx context.Context, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		return
	case HalfOpen:
		if success {
			b.changeStateLocked(ctx, Closed)
		} else {
			b.changeStateLocked(ctx, Open)
		}
		return
	}

	if success {
		b.successes++
	} else {
		b.failures++
	}
	total := b.failures + b.successes
	if total < b.settings.MinRequests {
		return
	}
	if float64(b.failures)/float64(total) >= b.settings.FailureRatio {
		b.changeStateLocked(ctx, Open)
		return
	}
	if total > b.settings.MinRequests*2 {
		// halve the window so old outcomes age out
		b.successes = (b.successes + 1) / 2
		b.failures = (b.failures + 1) / 2
	}
}

// Do runs fn when the breaker admits it and reports the outcome. It returns ErrOpenCircuit
// without calling fn while the breaker is open. A call ended by context cancellation proves
// nothing about the dependency and is not reported either way.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if !b.Allow(ctx) {
		return ErrOpenCircuit
	}
	err := fn(ctx)
	if err != nil && (errors.Is(err, context.Canceled) || ctx.Err() != nil) {
		b.abandon(ctx)
		return err
	}
	b.Report(ctx, err == nil)
	return err
}

// abandon releases an admitted call with no outcome. An abandoned half-open probe returns the
// breaker to open without restarting the cool-off, so the next call probes again.
func (b *Breaker) abandon(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != HalfOpen {
		return
	}
	openedAt := b.openedAt
	b.changeStateLocked(ctx, Open)
	b.openedAt = openedAt
}

func (b *Breaker) changeStateLocked(ctx context.Context, next State) {
	prev := b.state
	if prev == next {
		return
	}
	b.state = next
	switch next {
	case Open:
		b.openedAt = b.now()
	case Closed:
		b.openedAt = time.Time{}
	}
	b.failures = 0
	b.successes = 0
	b.recordStateLocked()
	b.recordTransition(ctx, prev, next)
}

func (b *Breaker) recordStateLocked() {
	if BreakerState == nil {
		return
	}
	BreakerState.WithLabelValues(b.targetLabel()).Set(stateGaugeValue(b.state))
}

func (b *Breaker) recordTransition(ctx context.Context, from, to State) {
	label := b.targetLabel()
	if BreakerTransitions != nil {
		BreakerTransitions.WithLabelValues(label, from.String(), to.String()).Inc()
	}
	evt := b.logger.Warn()
	if to == Closed {
		evt = b.logger.Info()
	}
	evt = evt.Str("target", label).Str("from_state", from.String()).Str("to_state", to.String())
	if span := trace.SpanContextFromContext(ctx); span.IsValid() {
		evt = evt.Str("trace_id", span.TraceID().String())
	}
	evt.Msg("breaker_transition")
}

func (b *Breaker) targetLabel() string {
	if b.target == "" {
		return "default"
	}
	return b.target
}

func stateGaugeValue(state State) float64 {
	switch state {
	case Closed:
		return 0
	case Open:
		return 1
	case HalfOpen:
		return 2
	default:
		return -1
	}
}
