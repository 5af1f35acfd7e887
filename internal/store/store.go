package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/chain"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/source"
)

// Store persists fetched quotes and source health snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// SaveQuote persists one fetched quote. Quotes tagged DOWN are rejected:
// the chain never returns them, but the writer enforces the contract on
// its own boundary too.
func (s *Store) SaveQuote(ctx context.Context, quote *source.Quote) error {
	if quote == nil {
		return fmt.Errorf("save quote: nil quote")
	}
	if quote.Status == source.StatusDown {
		return fmt.Errorf("save quote %q: refusing to persist a DOWN quote", quote.Key)
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO quotes (key, price, currency, source, status, error, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		quote.Key, quote.Price, quote.Currency, quote.Source, string(quote.Status), quote.Err, quote.FetchedAt)
	if err != nil {
		return fmt.Errorf("save quote %q: %w", quote.Key, err)
	}
	return nil
}

// SaveHealth upserts the current health record for every source.
func (s *Store) SaveHealth(ctx context.Context, records map[string]chain.HealthRecord) error {
	for name, rec := range records {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO source_health (source, status, last_success, fail_count, last_error, re_enable_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now())
			ON CONFLICT (source) DO UPDATE SET
				status = EXCLUDED.status,
				last_success = EXCLUDED.last_success,
				fail_count = EXCLUDED.fail_count,
				last_error = EXCLUDED.last_error,
				re_enable_at = EXCLUDED.re_enable_at,
				updated_at = now()`,
			name, string(rec.Status), nullTime(rec.LastSuccess), rec.FailCount, rec.LastError, nullTime(rec.ReEnableAt))
		if err != nil {
			return fmt.Errorf("save health for %q: %w", name, err)
		}
	}
	return nil
}

// nullTime maps the zero time to SQL NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// LatestQuote returns the most recently persisted quote for a key.
func (s *Store) LatestQuote(ctx context.Context, key string) (*source.Quote, error) {
	var q source.Quote
	var status string
	err := s.pool.QueryRow(ctx, `
		SELECT key, price, currency, source, status, error, fetched_at
		FROM quotes WHERE key = $1 ORDER BY fetched_at DESC LIMIT 1`, key).
		Scan(&q.Key, &q.Price, &q.Currency, &q.Source, &status, &q.Err, &q.FetchedAt)
	if err != nil {
		return nil, fmt.Errorf("latest quote for %q: %w", key, err)
	}
	q.Status = source.Status(status)
	return &q, nil
}
