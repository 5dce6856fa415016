package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/domain/entity"
	"github.com/sangkips/stockledger-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// SaleRepository defines the interface for sale data operations.
// Sales are immutable: there is no Update or Delete.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Sale, int64, error)
	Count(ctx context.Context) (int64, error)
	SumTotal(ctx context.Context) (decimal.Decimal, error)
}

// PurchaseRepository defines the interface for purchase data operations
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Purchase, int64, error)
	Count(ctx context.Context) (int64, error)
	SumTotal(ctx context.Context) (decimal.Decimal, error)
}

// TransactionFilterParams contains filtering parameters for sale and purchase queries
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	// Search matches the counterparty label
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}
