package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID
	ProductName  string
	ProductCode  string
	QuantitySold int
	Revenue      decimal.Decimal
}

// CategorySalesResult represents sales aggregated by product category
type CategorySalesResult struct {
	Category   string
	TotalSales decimal.Decimal
	LineCount  int
}

// AnalyticsRepository defines aggregation queries over recorded sales
type AnalyticsRepository interface {
	// GetTopProducts returns top selling products by revenue
	GetTopProducts(ctx context.Context, limit int) ([]TopProductResult, error)

	// GetSalesByCategory returns sale line revenue grouped by the product's category
	GetSalesByCategory(ctx context.Context) ([]CategorySalesResult, error)
}
