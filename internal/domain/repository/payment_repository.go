package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/domain/entity"
	"github.com/sangkips/stockledger-api/internal/domain/enum"
	"github.com/sangkips/stockledger-api/pkg/pagination"
)

// PaymentRepository defines the interface for payment and collection records
type PaymentRepository interface {
	Create(ctx context.Context, record *entity.PaymentRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentRecord, error)
	List(ctx context.Context, params *PaymentFilterParams) ([]entity.PaymentRecord, int64, error)
}

// PaymentFilterParams contains filtering parameters for payment queries
type PaymentFilterParams struct {
	Pagination *pagination.PaginationParams
	Kind       *enum.PaymentKind
	Reference  string
}
