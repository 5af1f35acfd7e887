package circuitbreaker

import (
	"sync"
	"time"
)

type State int

const (
	StateClosed   State = iota // Normal operation
	StateOpen                  // Blocking calls
	StateHalfOpen              // Cooldown elapsed, one probe allowed
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// maxErrorLen bounds the stored error message so a pathological upstream
// body cannot bloat health snapshots.
const maxErrorLen = 200

// CircuitBreaker tracks consecutive failures for a single source. The
// stored state is only ever CLOSED or OPEN; HALF_OPEN is derived at read
// time once the cooldown has elapsed, so polling State is idempotent and
// needs no timer.
type CircuitBreaker struct {
	mutex            sync.Mutex
	state            State
	failures         int
	lastFailure      time.Time
	lastErr          string
	failureThreshold int
	cooldown         time.Duration
}

func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: threshold,
		cooldown:         cooldown,
	}
}

// RecordSuccess closes the circuit and clears all failure bookkeeping.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.state = StateClosed
	cb.failures = 0
	cb.lastFailure = time.Time{}
	cb.lastErr = ""
}

// RecordFailure bumps the consecutive-failure count and opens the circuit
// once the threshold is reached. Recording a failure always restarts the
// cooldown clock, so a failed half-open probe re-opens the circuit for a
// full cooldown.
func (cb *CircuitBreaker) RecordFailure(err error) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.failures++
	cb.lastFailure = time.Now()
	if err != nil {
		msg := err.Error()
		if len(msg) > maxErrorLen {
			msg = msg[:maxErrorLen]
		}
		cb.lastErr = msg
	}

	if cb.failures >= cb.failureThreshold {
		cb.state = StateOpen
	}
}

// State returns the observed state. A stored OPEN whose cooldown has
// elapsed reads as HALF_OPEN; the stored value is only flipped by
// RecordSuccess and RecordFailure.
func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.observedState(time.Now())
}

// IsOpen reports whether calls should be skipped. A HALF_OPEN circuit is
// not open: the next call is the recovery probe.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == StateOpen
}

// LastError returns the most recent recorded failure message.
func (cb *CircuitBreaker) LastError() string {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.lastErr
}

// ReEnableAt returns the time at which an open circuit starts probing, or
// the zero time when the circuit is closed.
func (cb *CircuitBreaker) ReEnableAt() time.Time {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if cb.state != StateOpen {
		return time.Time{}
	}
	return cb.lastFailure.Add(cb.cooldown)
}

// Reset forces the circuit closed. Intended for tests and manual recovery.
func (cb *CircuitBreaker) Reset() {
	cb.RecordSuccess()
}

func (cb *CircuitBreaker) observedState(now time.Time) State {
	if cb.state == StateOpen && now.Sub(cb.lastFailure) >= cb.cooldown {
		return StateHalfOpen
	}
	return cb.state
}
