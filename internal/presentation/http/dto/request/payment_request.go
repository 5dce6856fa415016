package request

import (
	"time"

	"github.com/sangkips/stockledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest represents a payment or collection
type RecordPaymentRequest struct {
	Kind         enum.PaymentKind `json:"kind"`
	Amount       decimal.Decimal  `json:"amount"`
	Method       string           `json:"method"`
	Reference    string           `json:"reference"`
	Counterparty string           `json:"counterparty"`
	Date         *time.Time       `json:"date"`
}

// PaymentFilterRequest represents payment filter parameters
type PaymentFilterRequest struct {
	Kind      string `form:"kind"`
	Reference string `form:"reference"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
