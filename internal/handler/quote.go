package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/chain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Quote serves GET /api/quote/{key}: it drives the fallback chain for the
// requested key and returns the quote, live or degraded.
func Quote(ch *chain.Chain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		if key == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing key"})
			return
		}

		quote, err := ch.Fetch(r.Context(), key)
		if err != nil {
			var exhausted *chain.ExhaustedError
			if errors.As(err, &exhausted) {
				writeJSON(w, http.StatusBadGateway, errorResponse{Error: exhausted.Error()})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, quote)
	}
}
