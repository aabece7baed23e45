package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned without calling the protected function while
// the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// FailureThreshold is the number of consecutive failures that opens the breaker
	FailureThreshold int
	// Cooldown is how long the breaker stays open before letting a probe through
	Cooldown time.Duration
	// IsFailure decides whether an error counts against the breaker.
	// Defaults to every error except context cancellation.
	IsFailure func(err error) bool
	// OnStateChange is called whenever the state changes, outside the lock
	OnStateChange func(name string, from State, to State)
	now           func() time.Time
}

// Breaker guards calls to a flaky collaborator. After FailureThreshold
// consecutive failures it rejects calls for Cooldown, then admits a single
// probe; the probe's outcome closes or re-opens the circuit.
type Breaker struct {
	name     string
	settings Settings

	mu          sync.Mutex
	state       State
	failures    int
	openedAt    time.Time
	probeActive bool
}

// New creates a new circuit breaker with the given settings
func New(name string, settings Settings) *Breaker {
	if settings.FailureThreshold <= 0 {
		settings.FailureThreshold = 5
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 30 * time.Second
	}
	if settings.IsFailure == nil {
		settings.IsFailure = func(err error) bool {
			return !errors.Is(err, context.Canceled)
		}
	}
	if settings.now == nil {
		settings.now = time.Now
	}
	return &Breaker{name: name, settings: settings}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state, promoting open to half-open once the cooldown passed
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

// Failures returns the current consecutive failure count
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Call runs fn if the breaker admits it and records the outcome
func (b *Breaker) Call(fn func() error) error {
	_, err := Do(b, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Do runs fn through the breaker and returns its result
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T

	probe, err := b.admit()
	if err != nil {
		return zero, err
	}

	result, err := fn()
	b.record(probe, err)
	return result, err
}

func (b *Breaker) admit() (probe bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentState() {
	case StateOpen:
		return false, ErrCircuitOpen
	case StateHalfOpen:
		if b.probeActive {
			return false, ErrCircuitOpen
		}
		b.probeActive = true
		return true, nil
	default:
		return false, nil
	}
}

func (b *Breaker) record(probe bool, err error) {
	failed := err != nil && b.settings.IsFailure(err)

	b.mu.Lock()
	from := b.state
	if probe {
		b.probeActive = false
	}

	switch {
	case !failed:
		b.failures = 0
		if b.state == StateHalfOpen {
			b.state = StateClosed
		}
	case b.state == StateHalfOpen:
		b.trip()
	default:
		b.failures++
		if b.failures >= b.settings.FailureThreshold {
			b.trip()
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// currentState must be called with mu held
func (b *Breaker) currentState() State {
	if b.state == StateOpen && b.settings.now().Sub(b.openedAt) >= b.settings.Cooldown {
		from := b.state
		b.state = StateHalfOpen
		go b.notify(from, b.state)
	}
	return b.state
}

// trip must be called with mu held
func (b *Breaker) trip() {
	b.state = StateOpen
	b.openedAt = b.settings.now()
	b.failures = 0
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}
