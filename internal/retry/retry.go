package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/circuitbreaker"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/httpx"
)

// Policy is the immutable retry configuration shared across calls.
type Policy struct {
	MaxAttempts       int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	Multiplier        float64
	RetryableStatuses []int
}

// DefaultPolicy mirrors the configuration defaults: three attempts with
// 500ms/2/5s backoff, retrying the usual transient HTTP statuses.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:       3,
		BaseDelay:         500 * time.Millisecond,
		MaxDelay:          5 * time.Second,
		Multiplier:        2,
		RetryableStatuses: []int{429, 500, 502, 503, 504},
	}
}

// Delay returns the backoff before the given 1-based attempt's retry,
// capped at MaxDelay.
func (p Policy) Delay(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		d *= p.Multiplier
	}
	if max := float64(p.MaxDelay); p.MaxDelay > 0 && d > max {
		d = max
	}
	return time.Duration(d)
}

// Retryable reports whether a failed attempt is worth repeating. Upstream
// status codes outside the policy's retryable set abort the sequence early;
// everything else (network errors, decode errors) is treated as transient.
func (p Policy) Retryable(err error) bool {
	var statusErr *httpx.StatusError
	if !errors.As(err, &statusErr) {
		return true
	}
	for _, code := range p.RetryableStatuses {
		if statusErr.StatusCode == code {
			return true
		}
	}
	return false
}

// OpenError is returned when a call is short-circuited by an open breaker.
// No attempt is made.
type OpenError struct {
	Name    string
	LastErr string
}

func (e *OpenError) Error() string {
	if e.LastErr == "" {
		return fmt.Sprintf("circuit breaker for %s is open", e.Name)
	}
	return fmt.Sprintf("circuit breaker for %s is open (last error: %s)", e.Name, e.LastErr)
}

// Do executes op up to policy.MaxAttempts times with exponential backoff,
// coordinating with an optional breaker. The breaker only sees the terminal
// outcome of the whole sequence: one RecordSuccess, or one RecordFailure
// with the last error once attempts are exhausted. Backoff sleeps are
// context-aware; cancellation ends the sequence with the context error as
// the terminal outcome.
func Do[T any](ctx context.Context, name string, policy Policy, breaker *circuitbreaker.CircuitBreaker, op func(context.Context) (T, error)) (T, error) {
	var zero T

	if breaker != nil && breaker.IsOpen() {
		return zero, &OpenError{Name: name, LastErr: breaker.LastError()}
	}

	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		value, err := op(ctx)
		if err == nil {
			if breaker != nil {
				breaker.RecordSuccess()
			}
			return value, nil
		}

		lastErr = err
		if !policy.Retryable(err) || attempt == attempts {
			break
		}

		if err := sleep(ctx, policy.Delay(attempt)); err != nil {
			lastErr = fmt.Errorf("%w (after: %v)", err, lastErr)
			break
		}
	}

	if breaker != nil {
		breaker.RecordFailure(lastErr)
	}
	return zero, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
