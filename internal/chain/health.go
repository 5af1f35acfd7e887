package chain

import (
	"time"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/source"
)

// Thresholds maps a consecutive-failure streak to a health status. They
// are configuration, not invariants, but must be monotonic: a longer
// streak never improves the status.
type Thresholds struct {
	DegradedAfter int
	DownAfter     int
}

// DefaultThresholds marks a source DEGRADED at 2 consecutive failures and
// DOWN at 5.
func DefaultThresholds() Thresholds {
	return Thresholds{DegradedAfter: 2, DownAfter: 5}
}

func (t Thresholds) status(failCount int) source.Status {
	switch {
	case failCount >= t.DownAfter:
		return source.StatusDown
	case failCount >= t.DegradedAfter:
		return source.StatusDegraded
	default:
		return source.StatusOK
	}
}

// HealthRecord is the per-source status snapshot mutated only by the chain
// after each attempt.
type HealthRecord struct {
	Source      string        `json:"source"`
	Status      source.Status `json:"status"`
	LastSuccess time.Time     `json:"last_success,omitzero"`
	FailCount   int           `json:"fail_count"`
	LastError   string        `json:"last_error,omitempty"`
	ReEnableAt  time.Time     `json:"re_enable_at,omitzero"`
}
