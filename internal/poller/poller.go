package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/chain"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/source"
)

// Writer is the persistence boundary the poller hands results to.
type Writer interface {
	SaveQuote(ctx context.Context, quote *source.Quote) error
	SaveHealth(ctx context.Context, records map[string]chain.HealthRecord) error
}

// Poller drives the fallback chain on a fixed interval for a configured
// set of keys and hands results to an optional writer.
type Poller struct {
	chain    *chain.Chain
	writer   Writer
	keys     []string
	interval time.Duration
	logger   *slog.Logger
}

func New(ch *chain.Chain, writer Writer, keys []string, interval time.Duration, logger *slog.Logger) *Poller {
	return &Poller{
		chain:    ch,
		writer:   writer,
		keys:     keys,
		interval: interval,
		logger:   logger,
	}
}

// Run polls until the context is cancelled. The first cycle starts
// immediately.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("poller started",
		slog.Int("keys", len(p.keys)),
		slog.String("interval", p.interval.String()))
	defer p.logger.Info("poller stopped")

	p.pollAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollAll(ctx)
		}
	}
}

func (p *Poller) pollAll(ctx context.Context) {
	for _, key := range p.keys {
		quote, err := p.chain.Fetch(ctx, key)
		if err != nil {
			p.logger.Error("fetch cycle failed", slog.String("key", key), slog.Any("err", err))
			p.persistHealth(ctx)
			continue
		}

		p.logger.Info("fetched",
			slog.String("key", key),
			slog.String("source", quote.Source),
			slog.String("status", string(quote.Status)),
			slog.Float64("price", quote.Price))

		if p.writer != nil {
			if err := p.writer.SaveQuote(ctx, quote); err != nil {
				p.logger.Error("persist quote failed", slog.String("key", key), slog.Any("err", err))
			}
		}
		p.persistHealth(ctx)
	}
}

func (p *Poller) persistHealth(ctx context.Context) {
	if p.writer == nil {
		return
	}
	if err := p.writer.SaveHealth(ctx, p.chain.Health()); err != nil {
		p.logger.Error("persist health failed", slog.Any("err", err))
	}
}
