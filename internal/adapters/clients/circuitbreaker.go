package clients

import (
	"sync"
	"time"
)

// State is the circuit breaker state.
type State int

const (
	// StateClosed lets every request through.
	StateClosed State = iota

	// StateOpen blocks requests until the cool-down elapses.
	StateOpen

	// StateHalfOpen lets a limited number of probes through.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON health details.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CircuitBreakerConfig configures the circuit breaker behavior.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures int

	// Timeout is the cool-down spent open before probing.
	Timeout time.Duration

	// HalfOpenLimit is both the number of concurrent probes and the number
	// of consecutive probe successes that close the circuit.
	HalfOpenLimit int
}

// Snapshot is a point-in-time view of a CircuitBreaker.
type Snapshot struct {
	State    State     `json:"state"`
	Failures int       `json:"failures"`
	RetryAt  time.Time `json:"retryAt,omitzero"`
}

// CircuitBreaker stops calling the remote quote source after repeated
// failures so a dead server does not stall every sync cycle for the full
// retry budget.
//
//	Closed   → Open      after MaxFailures consecutive failures
//	Open     → HalfOpen  once Timeout has passed since the last failure
//	HalfOpen → Closed    after HalfOpenLimit consecutive successes
//	HalfOpen → Open      on any failure
type CircuitBreaker struct {
	mu          sync.RWMutex
	cfg         CircuitBreakerConfig
	state       State
	failures    int
	successes   int
	probes      int
	lastFailure time.Time

	onStateChange func(from, to State)
	now           func() time.Time
}

// NewCircuitBreaker creates a closed circuit breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:   cfg,
		state: StateClosed,
		now:   time.Now,
	}
}

// OnStateChange registers fn to run asynchronously on every transition.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.onStateChange = fn
}

// Allow reports whether a request may proceed. An open circuit whose
// cool-down has elapsed moves to half-open and admits the caller as a probe.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true

	case StateOpen:
		if cb.now().Sub(cb.lastFailure) < cb.cfg.Timeout {
			return false
		}

		cb.transitionTo(StateHalfOpen)
		cb.probes = 1

		return true

	case StateHalfOpen:
		if cb.probes >= cb.cfg.HalfOpenLimit {
			return false
		}

		cb.probes++

		return true

	default:
		return false
	}
}

// RecordSuccess records a completed request.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failures = 0

	case StateHalfOpen:
		cb.probes--
		cb.successes++

		if cb.successes >= cb.cfg.HalfOpenLimit {
			cb.transitionTo(StateClosed)
		}
	}
}

// RecordFailure records a failed request.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailure = cb.now()

	switch cb.state {
	case StateClosed:
		cb.failures++

		if cb.failures >= cb.cfg.MaxFailures {
			cb.transitionTo(StateOpen)
		}

	case StateHalfOpen:
		cb.probes--
		cb.transitionTo(StateOpen)
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.state
}

// Snapshot returns the state together with the failure count and, when
// open, the earliest time a probe will be admitted.
func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	snap := Snapshot{State: cb.state, Failures: cb.failures}
	if cb.state == StateOpen {
		snap.RetryAt = cb.lastFailure.Add(cb.cfg.Timeout)
	}

	return snap
}

// transitionTo must be called with cb.mu held.
func (cb *CircuitBreaker) transitionTo(next State) {
	if cb.state == next {
		return
	}

	prev := cb.state
	cb.state = next
	cb.failures = 0
	cb.successes = 0

	if cb.onStateChange != nil {
		go cb.onStateChange(prev, next)
	}
}
