package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// PostgresAnalyticsStore implements AnalyticsStoreInterface using PostgreSQL.
// It only reads; every report is a single statement at the connection's
// default isolation level.
type PostgresAnalyticsStore struct {
	db *sql.DB
}

// NewPostgresAnalyticsStore creates a new PostgreSQL-based analytics store
func NewPostgresAnalyticsStore(db *sql.DB) *PostgresAnalyticsStore {
	return &PostgresAnalyticsStore{db: db}
}

func (s *PostgresAnalyticsStore) SalesByCategory(ctx context.Context) ([]CategorySalesRow, error) {
	return queryRows(ctx, s.db, "sales by category", salesByCategoryQuery(),
		func(rows *sql.Rows, r *CategorySalesRow) error {
			return rows.Scan(&r.Category, &r.CategorySales)
		})
}

func (s *PostgresAnalyticsStore) TopSellingProducts(ctx context.Context, limit int) ([]TopSellingProductRow, error) {
	return queryRows(ctx, s.db, "top selling products", topSellingProductsQuery(limit),
		func(rows *sql.Rows, r *TopSellingProductRow) error {
			return rows.Scan(&r.ProductID, &r.ProductName, &r.TotalQuantity)
		})
}

func (s *PostgresAnalyticsStore) TopSpenders(ctx context.Context, limit int) ([]TopSpenderRow, error) {
	return queryRows(ctx, s.db, "top spenders", topSpendersQuery(limit),
		func(rows *sql.Rows, r *TopSpenderRow) error {
			return rows.Scan(&r.CustomerID, &r.Email, &r.FirstName, &r.LastName, &r.TotalSpend)
		})
}

func (s *PostgresAnalyticsStore) OrderCountByStatus(ctx context.Context) ([]StatusCountRow, error) {
	return queryRows(ctx, s.db, "order count by status", orderCountByStatusQuery(),
		func(rows *sql.Rows, r *StatusCountRow) error {
			return rows.Scan(&r.StatusName, &r.OrderCount)
		})
}

func (s *PostgresAnalyticsStore) AverageOrderValue(ctx context.Context) (decimal.Decimal, error) {
	query, args := averageOrderValueQuery().SQL()

	var avg decimal.NullDecimal
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&avg)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Decimal{}, ErrNoData
	}
	if err != nil {
		return decimal.Decimal{}, withContextErr(ctx, fmt.Errorf("querying average order value: %w", err))
	}
	if !avg.Valid {
		return decimal.Decimal{}, ErrNoData
	}
	return avg.Decimal, nil
}

func (s *PostgresAnalyticsStore) ProductRankByCategory(ctx context.Context, limit int) ([]ProductRankRow, error) {
	return queryRows(ctx, s.db, "product rank by category", productRankByCategoryQuery(limit),
		func(rows *sql.Rows, r *ProductRankRow) error {
			return rows.Scan(&r.ProductID, &r.ProductName, &r.Category, &r.TotalQuantity, &r.CategoryRank)
		})
}

func (s *PostgresAnalyticsStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// queryRows executes q and scans every row with scan. A failure part-way
// through discards the rows already read.
func queryRows[T any](
	ctx context.Context,
	db *sql.DB,
	name string,
	q *selectQuery,
	scan func(*sql.Rows, *T) error,
) ([]T, error) {
	query, args := q.SQL()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, withContextErr(ctx, fmt.Errorf("querying %s: %w", name, err))
	}
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		var r T
		if err := scan(rows, &r); err != nil {
			return nil, withContextErr(ctx, fmt.Errorf("scanning %s: %w", name, err))
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, withContextErr(ctx, fmt.Errorf("iterating %s: %w", name, err))
	}
	return result, nil
}
