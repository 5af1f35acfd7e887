package poller_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/chain"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/poller"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/retry"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/source"
)

func TestPoller(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Poller Suite")
}

type staticSource struct {
	name  string
	price float64
	fail  bool
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Fetch(_ context.Context, key string) (*source.Quote, error) {
	if s.fail {
		return nil, errors.New(s.name + " down")
	}
	return &source.Quote{
		Key: key, Price: s.price, Source: s.name,
		Status: source.StatusOK, FetchedAt: time.Now(),
	}, nil
}

type memWriter struct {
	mutex  sync.Mutex
	quotes []*source.Quote
	health []map[string]chain.HealthRecord
}

func (w *memWriter) SaveQuote(_ context.Context, q *source.Quote) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.quotes = append(w.quotes, q)
	return nil
}

func (w *memWriter) SaveHealth(_ context.Context, h map[string]chain.HealthRecord) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.health = append(w.health, h)
	return nil
}

func (w *memWriter) quoteCount() int {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return len(w.quotes)
}

func (w *memWriter) healthCount() int {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return len(w.health)
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testChain(srcs ...source.Source) *chain.Chain {
	return chain.New(srcs, chain.Options{
		RetryPolicy: retry.Policy{MaxAttempts: 1, BaseDelay: time.Millisecond, Multiplier: 2},
		CacheMaxAge: time.Minute,
		Logger:      testLogger,
	})
}

var _ = Describe("Poller", func() {
	It("should fetch every key once per cycle and persist results", func() {
		ch := testChain(&staticSource{name: "a", price: 10})
		w := &memWriter{}
		p := poller.New(ch, w, []string{"spot:BTC", "spot:ETH"}, time.Hour, testLogger)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			p.Run(ctx)
		}()

		Eventually(w.quoteCount).Should(Equal(2))
		Eventually(w.healthCount).Should(BeNumerically(">=", 2))
		cancel()
		Eventually(done).Should(BeClosed())
	})

	It("should keep persisting health when every fetch fails", func() {
		ch := testChain(&staticSource{name: "a", fail: true})
		w := &memWriter{}
		p := poller.New(ch, w, []string{"spot:BTC"}, time.Hour, testLogger)

		ctx, cancel := context.WithCancel(context.Background())
		go p.Run(ctx)
		defer cancel()

		Eventually(w.healthCount).Should(BeNumerically(">=", 1))
		Expect(w.quoteCount()).To(BeZero())
	})

	It("should tolerate a nil writer", func() {
		ch := testChain(&staticSource{name: "a", price: 10})
		p := poller.New(ch, nil, []string{"spot:BTC"}, time.Hour, testLogger)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			p.Run(ctx)
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()
		Eventually(done).Should(BeClosed())
	})
})
