package source

import (
	"context"
	"time"
)

// Status classifies a quote or a source's health.
type Status string

const (
	StatusOK       Status = "OK"
	StatusDegraded Status = "DEGRADED"
	StatusDown     Status = "DOWN"
)

// Quote is the normalized value returned by every source. The chain only
// ever hands OK or DEGRADED quotes to callers; DOWN quotes are recorded
// against the source's health and swallowed.
type Quote struct {
	Key       string    `json:"key"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	Source    string    `json:"source"`
	Status    Status    `json:"status"`
	Err       string    `json:"error,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Source is the capability every concrete price source implements.
// Implementations must be stateless from the chain's point of view and
// must not retain chain state.
type Source interface {
	Name() string
	Fetch(ctx context.Context, key string) (*Quote, error)
}
