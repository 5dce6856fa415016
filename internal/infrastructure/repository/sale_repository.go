package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

// Create inserts the sale and its items
func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return conn(ctx, r.db).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := conn(ctx, r.db).
		Preload("Items", orderedItems).
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Sale, int64, error) {
	return listTransactions[entity.Sale](conn(ctx, r.db).Model(&entity.Sale{}), "client", params)
}

func (r *saleRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&entity.Sale{}).Count(&total).Error
	return total, err
}

func (r *saleRepository) SumTotal(ctx context.Context) (decimal.Decimal, error) {
	return sumTotal(ctx, r.db, &entity.Sale{})
}
