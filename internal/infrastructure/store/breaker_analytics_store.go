package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig controls when the store stops sending queries.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before letting a probe through.
	OpenTimeout time.Duration
}

// BreakerAnalyticsStore wraps an AnalyticsStoreInterface with a circuit
// breaker. While the breaker is open calls return ErrUnavailable without
// touching the database. Nothing is retried.
type BreakerAnalyticsStore struct {
	next AnalyticsStoreInterface
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerAnalyticsStore creates a breaker-guarded store
func NewBreakerAnalyticsStore(next AnalyticsStoreInterface, cfg BreakerConfig, logger *zap.Logger) *BreakerAnalyticsStore {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "analytics-store",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerAnalyticsStore{next: next, cb: cb}
}

// isBreakerSuccess reports whether err says nothing about store health.
// Requests that ended because the caller went away or ran out of time are
// not held against the store.
func isBreakerSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNoData) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func execute[T any](ctx context.Context, cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		v, err := fn()
		return v, withContextErr(ctx, err)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return *new(T), fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err != nil {
		return *new(T), err
	}
	return res.(T), nil
}

func (s *BreakerAnalyticsStore) SalesByCategory(ctx context.Context) ([]CategorySalesRow, error) {
	return execute(ctx, s.cb, func() ([]CategorySalesRow, error) {
		return s.next.SalesByCategory(ctx)
	})
}

func (s *BreakerAnalyticsStore) TopSellingProducts(ctx context.Context, limit int) ([]TopSellingProductRow, error) {
	return execute(ctx, s.cb, func() ([]TopSellingProductRow, error) {
		return s.next.TopSellingProducts(ctx, limit)
	})
}

func (s *BreakerAnalyticsStore) TopSpenders(ctx context.Context, limit int) ([]TopSpenderRow, error) {
	return execute(ctx, s.cb, func() ([]TopSpenderRow, error) {
		return s.next.TopSpenders(ctx, limit)
	})
}

func (s *BreakerAnalyticsStore) OrderCountByStatus(ctx context.Context) ([]StatusCountRow, error) {
	return execute(ctx, s.cb, func() ([]StatusCountRow, error) {
		return s.next.OrderCountByStatus(ctx)
	})
}

func (s *BreakerAnalyticsStore) AverageOrderValue(ctx context.Context) (decimal.Decimal, error) {
	return execute(ctx, s.cb, func() (decimal.Decimal, error) {
		return s.next.AverageOrderValue(ctx)
	})
}

func (s *BreakerAnalyticsStore) ProductRankByCategory(ctx context.Context, limit int) ([]ProductRankRow, error) {
	return execute(ctx, s.cb, func() ([]ProductRankRow, error) {
		return s.next.ProductRankByCategory(ctx, limit)
	})
}

// Ping bypasses the breaker so health checks report the real store state.
func (s *BreakerAnalyticsStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// State returns the breaker's current state name.
func (s *BreakerAnalyticsStore) State() string {
	return s.cb.State().String()
}
