// Package chain composes the resilience primitives into the public fetch
// entry point: an ordered list of sources, each guarded by its own circuit
// breaker, each attempt wrapped in bounded retries, falling back source by
// source and finally to the last-known-good cache.
//
// Guarantees:
//
//   - sources are attempted in the same configured order on every call
//   - a source is never attempted while its breaker reports open
//   - the cache is consulted only after every source failed or was skipped
//   - callers receive a quote tagged OK or DEGRADED, never DOWN
//
// Usage:
//
//	srcs, _ := registry.Build(cfg.Sources.Priority)
//	ch := chain.New(srcs, chain.Options{Logger: log})
//	quote, err := ch.Fetch(ctx, "spot:BTC")
package chain
