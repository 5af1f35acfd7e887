// Package circuitbreaker implements the circuit breaker pattern for price
// source failover.
//
// A circuit breaker prevents hammering a source that is known to be down.
// It has three observable states:
//
//   - CLOSED: normal operation, calls pass through
//   - OPEN: source failing, calls are skipped without being attempted
//   - HALF_OPEN: cooldown elapsed, the next call probes for recovery
//
// Only CLOSED and OPEN are ever stored; HALF_OPEN is computed from the
// last failure time and the cooldown when the state is read.
//
// Usage:
//
//	cb := circuitbreaker.NewCircuitBreaker(5, 30*time.Second)
//	if !cb.IsOpen() {
//	    // Attempt the fetch...
//	    if err != nil {
//	        cb.RecordFailure(err)
//	    } else {
//	        cb.RecordSuccess()
//	    }
//	}
package circuitbreaker
