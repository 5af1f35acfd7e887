package chain

import (
	"fmt"
	"strings"
)

// ValidationError marks a structurally well-formed quote that failed the
// validity predicate (non-positive price, source-declared DOWN status). It
// counts against the breaker like any failure but stays distinguishable in
// health snapshots and aggregated errors.
type ValidationError struct {
	Source string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s returned invalid data: %s", e.Source, e.Reason)
}

// ExhaustedError is the single error a Fetch call can surface: every
// configured source failed or was skipped and no fresh cache entry exists.
// It carries one reason per source, in priority order.
type ExhaustedError struct {
	Key     string
	Reasons []string
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all sources failed for %q: %s", e.Key, strings.Join(e.Reasons, "; "))
}
