package handler

import (
	"net/http"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/chain"
)

type sourcesHealthResponse struct {
	Priority []string                      `json:"priority"`
	Sources  map[string]chain.HealthRecord `json:"sources"`
}

type breakersResponse struct {
	Breakers map[string]string `json:"breakers"`
}

// SourcesHealth serves GET /api/sources/health: the current health record
// of every configured source, keyed by name, plus the priority order.
func SourcesHealth(ch *chain.Chain) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, sourcesHealthResponse{
			Priority: ch.SourceNames(),
			Sources:  ch.Health(),
		})
	}
}

// Breakers serves GET /api/sources/breakers: the observed breaker state
// string per source.
func Breakers(ch *chain.Chain) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, breakersResponse{Breakers: ch.BreakerStates()})
	}
}
