// Package retry executes a single fetch operation with bounded
// exponential-backoff retries, coordinating breaker bookkeeping.
//
// The breaker is consulted once as a precondition (an open breaker fails
// the call immediately with no attempt) and told only the terminal outcome
// of the whole sequence. A source that fails twice and succeeds on the
// third attempt is recorded as one success, not two failures and a success.
package retry
