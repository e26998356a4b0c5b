package readmodel

import "github.com/shopspring/decimal"

// CategorySales is the revenue of one product category
type CategorySales struct {
	Category   string          `json:"category"`
	TotalSales decimal.Decimal `json:"totalSales"`
}

// TopSellingProduct is a product ranked by units sold
type TopSellingProduct struct {
	ProductID         int64  `json:"productId"`
	ProductName       string `json:"productName"`
	TotalQuantitySold int64  `json:"totalQuantitySold"`
}

// TopSpender is a customer ranked by total spend
type TopSpender struct {
	CustomerID int64           `json:"customerId"`
	Email      string          `json:"email"`
	FullName   string          `json:"fullName"`
	TotalSpend decimal.Decimal `json:"totalSpend"`
}

// StatusSummary is the number of orders in one status
type StatusSummary struct {
	StatusName string `json:"statusName"`
	OrderCount int64  `json:"orderCount"`
}

// AverageOrderValue is the mean of per-order totals
type AverageOrderValue struct {
	Value decimal.Decimal `json:"averageOrderValue"`
}

// ProductCategoryRank is a product's position within its category by units sold
type ProductCategoryRank struct {
	ProductID         int64  `json:"productId"`
	ProductName       string `json:"productName"`
	Category          string `json:"category"`
	TotalQuantitySold int64  `json:"totalQuantitySold"`
	CategoryRank      int64  `json:"categoryRank"`
}
