package query

import (
	"context"
	"errors"
	"testing"

	"github.com/example/ec-analytics/internal/infrastructure/store"
	"github.com/example/ec-analytics/internal/infrastructure/store/mocks"
	"github.com/example/ec-analytics/internal/readmodel"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueryHandler() (*Handler, *mocks.MockAnalyticsStore) {
	analyticsStore := mocks.NewMockAnalyticsStore()
	handler := NewHandler(analyticsStore)
	return handler, analyticsStore
}

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ============================================
// Sales By Category Tests
// ============================================

func TestHandler_SalesByCategory_MapsRowsInOrder(t *testing.T) {
	handler, analyticsStore := newTestQueryHandler()
	analyticsStore.SalesByCategoryRows = []store.CategorySalesRow{
		{Category: "Electronics", CategorySales: dec("1150.00")},
		{Category: "Books", CategorySales: dec("100.00")},
	}

	got, err := handler.SalesByCategory(context.Background())

	require.NoError(t, err)
	want := []readmodel.CategorySales{
		{Category: "Electronics", TotalSales: dec("1150")},
		{Category: "Books", TotalSales: dec("100")},
	}
	if diff := cmp.Diff(want, got, decimalComparer); diff != "" {
		t.Errorf("SalesByCategory mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_SalesByCategory_EmptyIsNonNil(t *testing.T) {
	handler, _ := newTestQueryHandler()

	got, err := handler.SalesByCategory(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHandler_SalesByCategory_KeepsExactDecimals(t *testing.T) {
	handler, analyticsStore := newTestQueryHandler()
	analyticsStore.SalesByCategoryRows = []store.CategorySalesRow{
		{Category: "Misc", CategorySales: dec("0.30")},
	}

	got, err := handler.SalesByCategory(context.Background())

	require.NoError(t, err)
	// 0.1 + 0.2 in float64 is 0.30000000000000004
	assert.Equal(t, "0.3", got[0].TotalSales.String())
}

// ============================================
// Top Selling Products Tests
// ============================================

func TestHandler_TopSellingProducts_ConvertsQuantityToInt64(t *testing.T) {
	handler, analyticsStore := newTestQueryHandler()
	analyticsStore.TopSellingProductRows = []store.TopSellingProductRow{
		{ProductID: 3, ProductName: "Book", TotalQuantity: dec("4")},
		{ProductID: 2, ProductName: "Mouse", TotalQuantity: dec("2")},
		{ProductID: 1, ProductName: "Laptop", TotalQuantity: dec("1")},
	}

	got, err := handler.TopSellingProducts(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, []readmodel.TopSellingProduct{
		{ProductID: 3, ProductName: "Book", TotalQuantitySold: 4},
		{ProductID: 2, ProductName: "Mouse", TotalQuantitySold: 2},
		{ProductID: 1, ProductName: "Laptop", TotalQuantitySold: 1},
	}, got)

	call, ok := analyticsStore.LastCall()
	require.True(t, ok)
	assert.Equal(t, 10, call.Limit)
}

func TestHandler_TopSellingProducts_LargeQuantity(t *testing.T) {
	handler, analyticsStore := newTestQueryHandler()
	analyticsStore.TopSellingProductRows = []store.TopSellingProductRow{
		{ProductID: 1, ProductName: "Bolt", TotalQuantity: dec("9000000000")},
	}

	got, err := handler.TopSellingProducts(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(9_000_000_000), got[0].TotalQuantitySold)
}

// ============================================
// Top Spenders Tests
// ============================================

func TestHandler_TopSpenders_BuildsFullName(t *testing.T) {
	handler, analyticsStore := newTestQueryHandler()
	analyticsStore.TopSpenderRows = []store.TopSpenderRow{
		{CustomerID: 1, Email: "test@user.com", FirstName: "Test", LastName: "User", TotalSpend: dec("1100.00")},
	}

	got, err := handler.TopSpenders(context.Background(), 5)

	require.NoError(t, err)
	want := []readmodel.TopSpender{
		{CustomerID: 1, Email: "test@user.com", FullName: "Test User", TotalSpend: dec("1100")},
	}
	if diff := cmp.Diff(want, got, decimalComparer); diff != "" {
		t.Errorf("TopSpenders mismatch (-want +got):\n%s", diff)
	}
}

// ============================================
// Status Summary Tests
// ============================================

func TestHandler_OrderCountByStatus(t *testing.T) {
	handler, analyticsStore := newTestQueryHandler()
	analyticsStore.StatusCountRows = []store.StatusCountRow{
		{StatusName: "Canceled", OrderCount: 1},
		{StatusName: "Delivered", OrderCount: 1},
	}

	got, err := handler.OrderCountByStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []readmodel.StatusSummary{
		{StatusName: "Canceled", OrderCount: 1},
		{StatusName: "Delivered", OrderCount: 1},
	}, got)
}

// ============================================
// Average Order Value Tests
// ============================================

func TestHandler_AverageOrderValue(t *testing.T) {
	handler, analyticsStore := newTestQueryHandler()
	analyticsStore.AverageOrderValueResult = dec("625.0000000000000000")

	got, err := handler.AverageOrderValue(context.Background())

	require.NoError(t, err)
	assert.True(t, dec("625").Equal(got.Value))
}

func TestHandler_AverageOrderValue_NoData(t *testing.T) {
	handler, analyticsStore := newTestQueryHandler()
	analyticsStore.AverageOrderValueErr = store.ErrNoData

	got, err := handler.AverageOrderValue(context.Background())

	assert.ErrorIs(t, err, store.ErrNoData)
	assert.Nil(t, got)
}

// ============================================
// Product Rank Tests
// ============================================

func TestHandler_ProductRankByCategory(t *testing.T) {
	handler, analyticsStore := newTestQueryHandler()
	analyticsStore.ProductRankRows = []store.ProductRankRow{
		{ProductID: 3, ProductName: "Book", Category: "Books", TotalQuantity: dec("4"), CategoryRank: 1},
		{ProductID: 2, ProductName: "Mouse", Category: "Electronics", TotalQuantity: dec("2"), CategoryRank: 1},
		{ProductID: 1, ProductName: "Laptop", Category: "Electronics", TotalQuantity: dec("1"), CategoryRank: 2},
	}

	got, err := handler.ProductRankByCategory(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, []readmodel.ProductCategoryRank{
		{ProductID: 3, ProductName: "Book", Category: "Books", TotalQuantitySold: 4, CategoryRank: 1},
		{ProductID: 2, ProductName: "Mouse", Category: "Electronics", TotalQuantitySold: 2, CategoryRank: 1},
		{ProductID: 1, ProductName: "Laptop", Category: "Electronics", TotalQuantitySold: 1, CategoryRank: 2},
	}, got)
}

// ============================================
// Error Propagation Tests
// ============================================

func TestHandler_PropagatesStoreErrors(t *testing.T) {
	handler, analyticsStore := newTestQueryHandler()
	dbErr := errors.New("connection reset")
	analyticsStore.Err = dbErr
	ctx := context.Background()

	_, err := handler.SalesByCategory(ctx)
	assert.ErrorIs(t, err, dbErr)
	_, err = handler.TopSellingProducts(ctx, 10)
	assert.ErrorIs(t, err, dbErr)
	_, err = handler.TopSpenders(ctx, 10)
	assert.ErrorIs(t, err, dbErr)
	_, err = handler.OrderCountByStatus(ctx)
	assert.ErrorIs(t, err, dbErr)
	_, err = handler.AverageOrderValue(ctx)
	assert.ErrorIs(t, err, dbErr)
	_, err = handler.ProductRankByCategory(ctx, 10)
	assert.ErrorIs(t, err, dbErr)
}
