package query

import (
	"context"

	"github.com/example/ec-analytics/internal/infrastructure/store"
	"github.com/example/ec-analytics/internal/readmodel"
)

// Handler answers the analytics reports by running the store query and
// mapping each row onto its read model, preserving row order.
type Handler struct {
	store store.AnalyticsStoreInterface
}

func NewHandler(analyticsStore store.AnalyticsStoreInterface) *Handler {
	return &Handler{store: analyticsStore}
}

func (h *Handler) SalesByCategory(ctx context.Context) ([]readmodel.CategorySales, error) {
	rows, err := h.store.SalesByCategory(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]readmodel.CategorySales, 0, len(rows))
	for _, r := range rows {
		result = append(result, readmodel.CategorySales{
			Category:   r.Category,
			TotalSales: r.CategorySales,
		})
	}
	return result, nil
}

// TopSellingProducts expects limit to be normalized already.
func (h *Handler) TopSellingProducts(ctx context.Context, limit int) ([]readmodel.TopSellingProduct, error) {
	rows, err := h.store.TopSellingProducts(ctx, limit)
	if err != nil {
		return nil, err
	}
	result := make([]readmodel.TopSellingProduct, 0, len(rows))
	for _, r := range rows {
		result = append(result, readmodel.TopSellingProduct{
			ProductID:         r.ProductID,
			ProductName:       r.ProductName,
			TotalQuantitySold: r.TotalQuantity.IntPart(),
		})
	}
	return result, nil
}

func (h *Handler) TopSpenders(ctx context.Context, limit int) ([]readmodel.TopSpender, error) {
	rows, err := h.store.TopSpenders(ctx, limit)
	if err != nil {
		return nil, err
	}
	result := make([]readmodel.TopSpender, 0, len(rows))
	for _, r := range rows {
		result = append(result, readmodel.TopSpender{
			CustomerID: r.CustomerID,
			Email:      r.Email,
			FullName:   r.FirstName + " " + r.LastName,
			TotalSpend: r.TotalSpend,
		})
	}
	return result, nil
}

func (h *Handler) OrderCountByStatus(ctx context.Context) ([]readmodel.StatusSummary, error) {
	rows, err := h.store.OrderCountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]readmodel.StatusSummary, 0, len(rows))
	for _, r := range rows {
		result = append(result, readmodel.StatusSummary{
			StatusName: r.StatusName,
			OrderCount: r.OrderCount,
		})
	}
	return result, nil
}

// AverageOrderValue returns store.ErrNoData when there are no orders.
func (h *Handler) AverageOrderValue(ctx context.Context) (*readmodel.AverageOrderValue, error) {
	avg, err := h.store.AverageOrderValue(ctx)
	if err != nil {
		return nil, err
	}
	return &readmodel.AverageOrderValue{Value: avg}, nil
}

func (h *Handler) ProductRankByCategory(ctx context.Context, limit int) ([]readmodel.ProductCategoryRank, error) {
	rows, err := h.store.ProductRankByCategory(ctx, limit)
	if err != nil {
		return nil, err
	}
	result := make([]readmodel.ProductCategoryRank, 0, len(rows))
	for _, r := range rows {
		result = append(result, readmodel.ProductCategoryRank{
			ProductID:         r.ProductID,
			ProductName:       r.ProductName,
			Category:          r.Category,
			TotalQuantitySold: r.TotalQuantity.IntPart(),
			CategoryRank:      r.CategoryRank,
		})
	}
	return result, nil
}

// Ping reports whether the underlying store is reachable
func (h *Handler) Ping(ctx context.Context) error {
	return h.store.Ping(ctx)
}
