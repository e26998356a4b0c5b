package store

import (
	"context"

	"github.com/shopspring/decimal"
)

// AnalyticsStoreInterface runs the aggregate report queries. Every method
// issues exactly one statement and returns rows in the order the statement
// produced them.
type AnalyticsStoreInterface interface {
	SalesByCategory(ctx context.Context) ([]CategorySalesRow, error)
	TopSellingProducts(ctx context.Context, limit int) ([]TopSellingProductRow, error)
	TopSpenders(ctx context.Context, limit int) ([]TopSpenderRow, error)
	OrderCountByStatus(ctx context.Context) ([]StatusCountRow, error)

	// AverageOrderValue returns ErrNoData when there are no orders.
	AverageOrderValue(ctx context.Context) (decimal.Decimal, error)

	ProductRankByCategory(ctx context.Context, limit int) ([]ProductRankRow, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}

// CategorySalesRow is one row of the sales-by-category query
type CategorySalesRow struct {
	Category      string
	CategorySales decimal.Decimal
}

// TopSellingProductRow is one row of the top-selling-products query.
// TotalQuantity is scanned as a decimal because SUM over integer columns
// widens past int64 on some engines.
type TopSellingProductRow struct {
	ProductID     int64
	ProductName   string
	TotalQuantity decimal.Decimal
}

// TopSpenderRow is one row of the top-spenders query
type TopSpenderRow struct {
	CustomerID int64
	Email      string
	FirstName  string
	LastName   string
	TotalSpend decimal.Decimal
}

// StatusCountRow is one row of the order-count-by-status query
type StatusCountRow struct {
	StatusName string
	OrderCount int64
}

// ProductRankRow is one row of the per-category ranking query
type ProductRankRow struct {
	ProductID     int64
	ProductName   string
	Category      string
	TotalQuantity decimal.Decimal
	CategoryRank  int64
}
