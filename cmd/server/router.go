package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/chain"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/handler"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/middleware"
)

func setupRouter(ch *chain.Chain, pinger handler.Pinger, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics())

	r.Get("/healthz", handler.Healthz())
	r.Get("/readyz", handler.Readyz(pinger))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/quote/{key}", handler.Quote(ch))
		r.Get("/sources/health", handler.SourcesHealth(ch))
		r.Get("/sources/breakers", handler.Breakers(ch))
	})

	return r
}
