package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one product line of a sale or purchase
type LineItemRequest struct {
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// RecordSaleRequest represents a sale request
type RecordSaleRequest struct {
	Client string            `json:"client"`
	Date   *time.Time        `json:"date"`
	Items  []LineItemRequest `json:"items"`
}

// RecordPurchaseRequest represents a purchase request
type RecordPurchaseRequest struct {
	Supplier string            `json:"supplier"`
	Date     *time.Time        `json:"date"`
	Items    []LineItemRequest `json:"items"`
}

// TransactionFilterRequest represents sale and purchase filter parameters.
// Dates are YYYY-MM-DD and inclusive.
type TransactionFilterRequest struct {
	Search    string `form:"search"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
