package mocks

import (
	"context"
	"sync"

	"github.com/example/ec-analytics/internal/infrastructure/store"
	"github.com/shopspring/decimal"
)

// MockAnalyticsStore is a mock implementation of AnalyticsStoreInterface for testing.
// Canned rows are returned as-is; Err, when set, is returned by every report
// method instead of the rows.
type MockAnalyticsStore struct {
	mu sync.Mutex

	SalesByCategoryRows     []store.CategorySalesRow
	TopSellingProductRows   []store.TopSellingProductRow
	TopSpenderRows          []store.TopSpenderRow
	StatusCountRows         []store.StatusCountRow
	AverageOrderValueResult decimal.Decimal
	AverageOrderValueErr    error
	ProductRankRows         []store.ProductRankRow
	Err                     error
	PingErr                 error

	// For tracking calls in tests
	Calls []Call
}

// Call records one report invocation
type Call struct {
	Method string
	Limit  int
}

// NewMockAnalyticsStore creates a new MockAnalyticsStore
func NewMockAnalyticsStore() *MockAnalyticsStore {
	return &MockAnalyticsStore{Calls: make([]Call, 0)}
}

func (m *MockAnalyticsStore) record(method string, limit int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Method: method, Limit: limit})
}

func (m *MockAnalyticsStore) SalesByCategory(ctx context.Context) ([]store.CategorySalesRow, error) {
	m.record("SalesByCategory", 0)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.SalesByCategoryRows, nil
}

func (m *MockAnalyticsStore) TopSellingProducts(ctx context.Context, limit int) ([]store.TopSellingProductRow, error) {
	m.record("TopSellingProducts", limit)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.TopSellingProductRows, nil
}

func (m *MockAnalyticsStore) TopSpenders(ctx context.Context, limit int) ([]store.TopSpenderRow, error) {
	m.record("TopSpenders", limit)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.TopSpenderRows, nil
}

func (m *MockAnalyticsStore) OrderCountByStatus(ctx context.Context) ([]store.StatusCountRow, error) {
	m.record("OrderCountByStatus", 0)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.StatusCountRows, nil
}

func (m *MockAnalyticsStore) AverageOrderValue(ctx context.Context) (decimal.Decimal, error) {
	m.record("AverageOrderValue", 0)
	if m.Err != nil {
		return decimal.Decimal{}, m.Err
	}
	if m.AverageOrderValueErr != nil {
		return decimal.Decimal{}, m.AverageOrderValueErr
	}
	return m.AverageOrderValueResult, nil
}

func (m *MockAnalyticsStore) ProductRankByCategory(ctx context.Context, limit int) ([]store.ProductRankRow, error) {
	m.record("ProductRankByCategory", limit)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.ProductRankRows, nil
}

func (m *MockAnalyticsStore) Ping(ctx context.Context) error {
	return m.PingErr
}

// CallCount returns how many report calls were recorded
func (m *MockAnalyticsStore) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent report call
func (m *MockAnalyticsStore) LastCall() (Call, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Call{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}

// Reset clears recorded calls
func (m *MockAnalyticsStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = make([]Call, 0)
}
