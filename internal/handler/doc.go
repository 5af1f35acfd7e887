// Package handler implements the HTTP API: on-demand quote fetches
// through the fallback chain, source health and breaker introspection,
// and liveness/readiness probes.
package handler
