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

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *gorm.DB) domainRepo.PurchaseRepository {
	return &purchaseRepository{db: db}
}

// Create inserts the purchase and its items
func (r *purchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	return conn(ctx, r.db).Create(purchase).Error
}

func (r *purchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	var purchase entity.Purchase
	err := conn(ctx, r.db).
		Preload("Items", orderedItems).
		First(&purchase, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &purchase, err
}

func (r *purchaseRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Purchase, int64, error) {
	return listTransactions[entity.Purchase](conn(ctx, r.db).Model(&entity.Purchase{}), "supplier", params)
}

func (r *purchaseRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&entity.Purchase{}).Count(&total).Error
	return total, err
}

func (r *purchaseRepository) SumTotal(ctx context.Context) (decimal.Decimal, error) {
	return sumTotal(ctx, r.db, &entity.Purchase{})
}
