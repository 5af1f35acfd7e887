package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/config"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/chain"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/handler"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/httpserver"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/httpx"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/poller"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/retry"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/source"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/store"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sources, err := buildSources(cfg)
	if err != nil {
		log.Error("failed to build sources", slog.Any("err", err))
		os.Exit(1)
	}

	ch := chain.New(sources, chainOptions(cfg, log))

	var st *store.Store
	if cfg.Database.URL != "" {
		st, err = store.New(ctx, cfg.Database.URL)
		if err != nil {
			log.Error("failed to connect to database", slog.Any("err", err))
			os.Exit(1)
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			log.Error("failed to run migrations", slog.Any("err", err))
			os.Exit(1)
		}
	}

	if cfg.Poller.Enabled {
		var writer poller.Writer
		if st != nil {
			writer = st
		}
		p := poller.New(ch, writer, cfg.Poller.Keys, config.Duration(cfg.Poller.Interval), log)
		go p.Run(ctx)
	}

	var pinger handler.Pinger
	if st != nil {
		pinger = st
	}

	srv, err := httpserver.New(cfg.Server.Address, setupRouter(ch, pinger, log))
	if err != nil {
		log.Error("failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("server starting",
		slog.String("address", cfg.Server.Address),
		slog.Any("sources", cfg.Sources.Priority))

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down gracefully")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("server error", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

// buildSources registers every known source factory and materializes the
// configured priority order.
func buildSources(cfg *config.Config) ([]source.Source, error) {
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

	return registry.Build(cfg.Sources.Priority)
}

func chainOptions(cfg *config.Config, log *slog.Logger) chain.Options {
	return chain.Options{
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
		Thresholds: chain.Thresholds{
			DegradedAfter: cfg.Health.DegradedAfter,
			DownAfter:     cfg.Health.DownAfter,
		},
		Logger: log,
	}
}
