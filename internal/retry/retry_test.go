package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/circuitbreaker"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/httpx"
	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/retry"
)

func TestRetry(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Retry Suite")
}

func fastPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:       3,
		BaseDelay:         time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		Multiplier:        2,
		RetryableStatuses: []int{429, 500, 502, 503, 504},
	}
}

var _ = Describe("Do", func() {
	var (
		ctx   context.Context
		calls int
	)

	BeforeEach(func() {
		ctx = context.Background()
		calls = 0
	})

	Context("when the first attempt succeeds", func() {
		It("should return the value without retrying", func() {
			value, err := retry.Do(ctx, "src", fastPolicy(), nil, func(context.Context) (int, error) {
				calls++
				return 42, nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal(42))
			Expect(calls).To(Equal(1))
		})
	})

	Context("when early attempts fail", func() {
		It("should retry until success within the budget", func() {
			value, err := retry.Do(ctx, "src", fastPolicy(), nil, func(context.Context) (string, error) {
				calls++
				if calls < 3 {
					return "", errors.New("transient")
				}
				return "ok", nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("ok"))
			Expect(calls).To(Equal(3))
		})

		It("should record exactly one success on the breaker", func() {
			cb := circuitbreaker.NewCircuitBreaker(2, time.Minute)
			_, err := retry.Do(ctx, "src", fastPolicy(), cb, func(context.Context) (int, error) {
				calls++
				if calls < 3 {
					return 0, errors.New("transient")
				}
				return 1, nil
			})
			Expect(err).NotTo(HaveOccurred())
			// Two intra-call failures must not count against the breaker:
			// threshold is 2, and the circuit is still closed.
			Expect(cb.State()).To(Equal(circuitbreaker.StateClosed))
			Expect(cb.LastError()).To(BeEmpty())
		})
	})

	Context("when all attempts fail", func() {
		It("should propagate the last error", func() {
			_, err := retry.Do(ctx, "src", fastPolicy(), nil, func(context.Context) (int, error) {
				calls++
				return 0, errors.New("attempt " + string(rune('0'+calls)))
			})
			Expect(err).To(MatchError(ContainSubstring("attempt 3")))
			Expect(calls).To(Equal(3))
		})

		It("should record exactly one failure on the breaker", func() {
			cb := circuitbreaker.NewCircuitBreaker(5, time.Minute)
			_, err := retry.Do(ctx, "src", fastPolicy(), cb, func(context.Context) (int, error) {
				return 0, errors.New("down")
			})
			Expect(err).To(HaveOccurred())
			Expect(cb.LastError()).To(Equal("down"))
			// One terminal failure, not one per attempt.
			cb2 := circuitbreaker.NewCircuitBreaker(2, time.Minute)
			_, _ = retry.Do(ctx, "src", fastPolicy(), cb2, func(context.Context) (int, error) {
				return 0, errors.New("down")
			})
			Expect(cb2.State()).To(Equal(circuitbreaker.StateClosed))
		})
	})

	Context("when the breaker is open", func() {
		It("should fail immediately without consuming the retry budget", func() {
			cb := circuitbreaker.NewCircuitBreaker(1, time.Minute)
			cb.RecordFailure(errors.New("upstream 503"))
			Expect(cb.IsOpen()).To(BeTrue())

			_, err := retry.Do(ctx, "binance", fastPolicy(), cb, func(context.Context) (int, error) {
				calls++
				return 0, nil
			})

			var openErr *retry.OpenError
			Expect(errors.As(err, &openErr)).To(BeTrue())
			Expect(openErr.Name).To(Equal("binance"))
			Expect(err.Error()).To(ContainSubstring("upstream 503"))
			Expect(calls).To(BeZero())
		})
	})

	Context("when the error is a non-retryable HTTP status", func() {
		It("should stop after the first attempt", func() {
			_, err := retry.Do(ctx, "src", fastPolicy(), nil, func(context.Context) (int, error) {
				calls++
				return 0, &httpx.StatusError{Source: "src", StatusCode: 401}
			})
			Expect(err).To(HaveOccurred())
			Expect(calls).To(Equal(1))
		})

		It("should keep retrying a retryable status", func() {
			_, err := retry.Do(ctx, "src", fastPolicy(), nil, func(context.Context) (int, error) {
				calls++
				return 0, &httpx.StatusError{Source: "src", StatusCode: 503}
			})
			Expect(err).To(HaveOccurred())
			Expect(calls).To(Equal(3))
		})
	})

	Context("when the context is cancelled during backoff", func() {
		It("should end the sequence with the context error", func() {
			policy := fastPolicy()
			policy.BaseDelay = time.Second
			cctx, cancel := context.WithCancel(ctx)

			cb := circuitbreaker.NewCircuitBreaker(5, time.Minute)
			go func() {
				time.Sleep(10 * time.Millisecond)
				cancel()
			}()

			_, err := retry.Do(cctx, "src", policy, cb, func(context.Context) (int, error) {
				calls++
				return 0, errors.New("transient")
			})
			Expect(err).To(MatchError(context.Canceled))
			Expect(calls).To(Equal(1))
			Expect(cb.LastError()).To(ContainSubstring("transient"))
		})
	})
})

var _ = Describe("Policy", func() {
	DescribeTable("Delay grows exponentially and is capped",
		func(attempt int, want time.Duration) {
			p := retry.Policy{BaseDelay: 100 * time.Millisecond, MaxDelay: 500 * time.Millisecond, Multiplier: 2}
			Expect(p.Delay(attempt)).To(Equal(want))
		},
		Entry("first retry", 1, 100*time.Millisecond),
		Entry("second retry", 2, 200*time.Millisecond),
		Entry("third retry", 3, 400*time.Millisecond),
		Entry("capped at max", 4, 500*time.Millisecond),
	)

	It("treats non-HTTP errors as retryable", func() {
		p := retry.DefaultPolicy()
		Expect(p.Retryable(errors.New("dial tcp: connection refused"))).To(BeTrue())
	})
})
