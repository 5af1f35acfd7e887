// Command fetch resolves a single lookup key through the fallback chain
// and prints the resulting quote as JSON. Useful for smoke-testing source
// configuration without running the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/config"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/chain"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/httpx"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/retry"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/source"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/pkg/logger"
)

func main() {
	key := flag.String("key", "spot:BTC", "lookup key, e.g. spot:BTC or dex:ethereum:0x...")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(config.LogLevelWarn, false, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := httpx.New(config.Duration(cfg.Sources.Timeout))

	registry := source.NewRegistry()
	registry.Register("binance", func() (source.Source, error) {
		return source.NewBinance(client, cfg.Sources.Binance.QuoteAsset), nil
	})
	registry.Register("coingecko", func() (source.Source, error) {
		return source.NewCoinGecko(client, cfg.Sources.CoinGecko.Currency), nil
	})
	registry.Register("dexscreener", func() (source.Source, error) {
		return source.NewDexScreener(client), nil
	})

	sources, err := registry.Build(cfg.Sources.Priority)
	if err != nil {
		log.Error("failed to build sources", slog.Any("err", err))
		os.Exit(1)
	}

	ch := chain.New(sources, chain.Options{
		RetryPolicy: retry.Policy{
			MaxAttempts:       cfg.Retry.MaxAttempts,
			BaseDelay:         config.Duration(cfg.Retry.BaseDelay),
			MaxDelay:          config.Duration(cfg.Retry.MaxDelay),
			Multiplier:        cfg.Retry.Multiplier,
			RetryableStatuses: cfg.Retry.RetryableStatuses,
		},
		FailureThreshold: cfg.Breaker.FailureThreshold,
		Cooldown:         config.Duration(cfg.Breaker.Cooldown),
		CacheMaxAge:      config.Duration(cfg.Cache.MaxAge),
		Logger:           log,
	})

	quote, err := ch.Fetch(ctx, *key)
	if err != nil {
		log.Error("fetch failed", slog.String("key", *key), slog.Any("err", err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(quote); err != nil {
		log.Error("encode quote", slog.Any("err", err))
		os.Exit(1)
	}
}
