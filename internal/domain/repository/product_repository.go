package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/domain/entity"
	"github.com/sangkips/stockledger-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data operations.
// Stock is never written through Update; the ledger methods are the only writers.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	CreateBatch(ctx context.Context, products []entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetByCodes returns the subset of codes already taken
	GetByCodes(ctx context.Context, codes []string) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	GetLowStock(ctx context.Context, threshold int) ([]entity.Product, error)
	Count(ctx context.Context) (int64, error)
	// StockValuation sums stock × cost price over all products
	StockValuation(ctx context.Context) (decimal.Decimal, error)

	// DecrementStock atomically decrements stock only if sufficient.
	// Returns (true, nil) if applied, (false, nil) if the row is missing or short.
	DecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error)
	// IncrementStock atomically increments stock. Returns false if the row is missing.
	IncrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error)
	// AdjustStock applies a signed delta, clamping the result at zero.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (bool, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	// Search matches code, name or category, case-insensitively
	Search   string
	Category string
	LowStock *int
}
