package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Code      string          `json:"code" binding:"omitempty,max=100"`
	Name      string          `json:"name" binding:"required,max=255"`
	Category  string          `json:"category" binding:"omitempty,max=255"`
	Stock     int             `json:"stock"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Supplier  string          `json:"supplier" binding:"omitempty,max=255"`
	Photo     string          `json:"photo"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Code      *string          `json:"code" binding:"omitempty,min=1,max=100"`
	Name      *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Category  *string          `json:"category" binding:"omitempty,max=255"`
	CostPrice *decimal.Decimal `json:"cost_price"`
	SalePrice *decimal.Decimal `json:"sale_price"`
	Supplier  *string          `json:"supplier" binding:"omitempty,max=255"`
	Photo     *string          `json:"photo"`
}

// AdjustStockRequest is a manual stock entry (positive) or exit (negative)
type AdjustStockRequest struct {
	Delta int `json:"delta"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	LowStock *int   `form:"low_stock" binding:"omitempty,min=0"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
