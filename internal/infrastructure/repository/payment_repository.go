package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stockledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment record repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, record *entity.PaymentRecord) error {
	return conn(ctx, r.db).Create(record).Error
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentRecord, error) {
	var record entity.PaymentRecord
	err := conn(ctx, r.db).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *paymentRepository) List(ctx context.Context, params *domainRepo.PaymentFilterParams) ([]entity.PaymentRecord, int64, error) {
	var records []entity.PaymentRecord
	var total int64

	query := conn(ctx, r.db).Model(&entity.PaymentRecord{})

	if params.Kind != nil {
		query = query.Where("kind = ?", *params.Kind)
	}

	if params.Reference != "" {
		query = query.Where("reference = ?", params.Reference)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pageParams(params.Pagination)
	err := query.Offset(page.Offset()).Limit(page.PerPage).
		Order("date DESC, created_at DESC").
		Find(&records).Error

	return records, total, err
}
