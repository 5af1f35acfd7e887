package chain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/cache"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/circuitbreaker"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/metrics"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/retry"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/source"
)

// lkgSuffix marks a quote served from the last-known-good cache so callers
// can tell a fallback read from a live one.
const lkgSuffix = " (lkg)"

// Options configures a Chain. Zero-value fields fall back to the package
// defaults.
type Options struct {
	RetryPolicy      retry.Policy
	FailureThreshold int
	Cooldown         time.Duration
	CacheMaxAge      time.Duration
	Thresholds       Thresholds
	Logger           *slog.Logger
}

// guardedSource pairs a source with its breaker and health record. Both
// live for the chain's lifetime and are mutated only by the chain.
type guardedSource struct {
	src     source.Source
	breaker *circuitbreaker.CircuitBreaker
	health  HealthRecord
}

// Chain tries an ordered list of sources until one returns a valid quote,
// falling back to the last-known-good cache when all of them fail. It is
// safe for concurrent callers: breakers and the cache carry their own
// locks, and one chain mutex guards health records.
type Chain struct {
	mutex      sync.Mutex
	sources    []*guardedSource
	cache      *cache.LastKnownGood
	policy     retry.Policy
	thresholds Thresholds
	logger     *slog.Logger
}

func New(sources []source.Source, opts Options) *Chain {
	if opts.FailureThreshold <= 0 {
		opts.FailureThreshold = 5
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = 60 * time.Second
	}
	if opts.RetryPolicy.MaxAttempts == 0 {
		opts.RetryPolicy = retry.DefaultPolicy()
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	guarded := make([]*guardedSource, 0, len(sources))
	for _, src := range sources {
		guarded = append(guarded, &guardedSource{
			src:     src,
			breaker: circuitbreaker.NewCircuitBreaker(opts.FailureThreshold, opts.Cooldown),
			health:  HealthRecord{Source: src.Name(), Status: source.StatusOK},
		})
	}

	return &Chain{
		sources:    guarded,
		cache:      cache.NewLastKnownGood(opts.CacheMaxAge),
		policy:     opts.RetryPolicy,
		thresholds: opts.Thresholds,
		logger:     opts.Logger,
	}
}

// Fetch tries every source in configured order and returns the first valid
// quote. When all sources fail or are skipped it serves the last known
// good value as DEGRADED, and only when that too is absent does it return
// an ExhaustedError naming every source's failure reason.
func (c *Chain) Fetch(ctx context.Context, key string) (*source.Quote, error) {
	reasons := make([]string, 0, len(c.sources))

	for _, gs := range c.sources {
		name := gs.src.Name()

		if gs.breaker.IsOpen() {
			reason := fmt.Sprintf("%s: skipped, circuit open", name)
			if last := gs.breaker.LastError(); last != "" {
				reason += " (last error: " + last + ")"
			}
			reasons = append(reasons, reason)
			metrics.FetchTotal.WithLabelValues(name, metrics.OutcomeSkipped).Inc()
			c.logger.Debug("skipping source, circuit open", slog.String("source", name), slog.String("key", key))
			continue
		}

		start := time.Now()
		quote, err := retry.Do(ctx, name, c.policy, gs.breaker, func(ctx context.Context) (*source.Quote, error) {
			return gs.src.Fetch(ctx, key)
		})
		metrics.FetchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

		if err != nil {
			c.recordFailure(gs, err)
			reasons = append(reasons, fmt.Sprintf("%s: %v", name, err))
			metrics.FetchTotal.WithLabelValues(name, metrics.OutcomeFailure).Inc()
			c.logger.Warn("source fetch failed",
				slog.String("source", name),
				slog.String("key", key),
				slog.Any("err", err))
			continue
		}

		if verr := validate(name, quote); verr != nil {
			// No error propagated, but the breaker and health see it as one.
			gs.breaker.RecordFailure(verr)
			c.recordFailure(gs, verr)
			reasons = append(reasons, verr.Error())
			metrics.FetchTotal.WithLabelValues(name, metrics.OutcomeInvalid).Inc()
			c.logger.Warn("source returned invalid data",
				slog.String("source", name),
				slog.String("key", key),
				slog.String("reason", verr.Reason))
			continue
		}

		c.recordSuccess(gs)
		c.cache.Put(key, quote)
		metrics.FetchTotal.WithLabelValues(name, metrics.OutcomeSuccess).Inc()
		c.logger.Debug("fetched quote",
			slog.String("source", name),
			slog.String("key", key),
			slog.Float64("price", quote.Price))
		return quote, nil
	}

	if cached, ok := c.cache.Get(key); ok {
		metrics.CacheReads.WithLabelValues("hit").Inc()
		cached.Status = source.StatusDegraded
		cached.Source += lkgSuffix
		cached.Err = "all live sources failed, serving last known good"
		c.logger.Warn("serving last known good value",
			slog.String("key", key),
			slog.String("source", cached.Source))
		return cached, nil
	}

	metrics.CacheReads.WithLabelValues("miss").Inc()
	return nil, &ExhaustedError{Key: key, Reasons: reasons}
}

// Health returns a point-in-time copy of every source's health record, in
// configured order.
func (c *Chain) Health() map[string]HealthRecord {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	out := make(map[string]HealthRecord, len(c.sources))
	for _, gs := range c.sources {
		out[gs.src.Name()] = gs.health
	}
	return out
}

// BreakerStates returns the observed breaker state string per source.
func (c *Chain) BreakerStates() map[string]string {
	out := make(map[string]string, len(c.sources))
	for _, gs := range c.sources {
		out[gs.src.Name()] = gs.breaker.State().String()
	}
	return out
}

// SourceNames returns the configured priority order.
func (c *Chain) SourceNames() []string {
	names := make([]string, 0, len(c.sources))
	for _, gs := range c.sources {
		names = append(names, gs.src.Name())
	}
	return names
}

func (c *Chain) recordSuccess(gs *guardedSource) {
	c.mutex.Lock()
	gs.health = HealthRecord{
		Source:      gs.src.Name(),
		Status:      source.StatusOK,
		LastSuccess: time.Now(),
	}
	c.mutex.Unlock()
	c.publishBreakerState(gs)
}

func (c *Chain) recordFailure(gs *guardedSource, err error) {
	c.mutex.Lock()
	gs.health.FailCount++
	gs.health.Status = c.thresholds.status(gs.health.FailCount)
	gs.health.LastError = err.Error()
	gs.health.ReEnableAt = gs.breaker.ReEnableAt()
	c.mutex.Unlock()
	c.publishBreakerState(gs)
}

func (c *Chain) publishBreakerState(gs *guardedSource) {
	metrics.BreakerState.WithLabelValues(gs.src.Name()).Set(float64(gs.breaker.State()))
}

// validate is the validity predicate from the chain's point of view: a
// usable quote exists, carries a positive price, and is not flagged DOWN
// by the source itself.
func validate(name string, quote *source.Quote) *ValidationError {
	switch {
	case quote == nil:
		return &ValidationError{Source: name, Reason: "nil quote"}
	case quote.Status == source.StatusDown:
		reason := "source reported DOWN"
		if quote.Err != "" {
			reason += ": " + quote.Err
		}
		return &ValidationError{Source: name, Reason: reason}
	case quote.Price <= 0:
		return &ValidationError{Source: name, Reason: fmt.Sprintf("non-positive price %v", quote.Price)}
	default:
		return nil
	}
}
