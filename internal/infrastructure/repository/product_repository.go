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

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return conn(ctx, r.db).Create(product).Error
}

// CreateBatch inserts all products in one transaction
func (r *productRepository) CreateBatch(ctx context.Context, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&products, 100).Error
	})
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).First(&product, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByCodes(ctx context.Context, codes []string) ([]entity.Product, error) {
	if len(codes) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := conn(ctx, r.db).Where("code IN ?", codes).Find(&products).Error
	return products, err
}

// Update saves catalogue fields. Stock is omitted so a stale copy cannot overwrite ledger changes.
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return conn(ctx, r.db).Model(product).
		Select("code", "name", "category", "cost_price", "sale_price", "supplier", "photo_url", "photo_id", "updated_at").
		Updates(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := conn(ctx, r.db).Model(&entity.Product{})

	if params.Search != "" {
		pattern := likePattern(params.Search)
		query = query.Where(likeClause("code")+" OR "+likeClause("name")+" OR "+likeClause("category"),
			pattern, pattern, pattern)
	}

	if params.Category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", params.Category)
	}

	if params.LowStock != nil {
		query = query.Where("stock <= ?", *params.LowStock)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pageParams(params.Pagination)
	err := query.Offset(page.Offset()).Limit(page.PerPage).
		Order("created_at DESC, id DESC").
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) GetLowStock(ctx context.Context, threshold int) ([]entity.Product, error) {
	var products []entity.Product
	err := conn(ctx, r.db).
		Where("stock <= ?", threshold).
		Order("stock ASC, code ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&entity.Product{}).Count(&total).Error
	return total, err
}

func (r *productRepository) StockValuation(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Value decimal.Decimal
	}
	err := conn(ctx, r.db).Model(&entity.Product{}).
		Select("COALESCE(SUM(stock * cost_price), 0) AS value").
		Scan(&result).Error
	return result.Value, err
}

// DecrementStock atomically decrements stock only if sufficient quantity exists.
// Uses: UPDATE products SET stock = stock - amount WHERE id = ? AND stock >= amount
func (r *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.Product{}).
		Where("id = ? AND stock >= ?", id, amount).
		Update("stock", gorm.Expr("stock - ?", amount))

	if result.Error != nil {
		return false, result.Error
	}

	// No rows affected: missing product or insufficient stock
	return result.RowsAffected > 0, nil
}

func (r *productRepository) IncrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", amount))

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AdjustStock clamps at zero in the same statement so concurrent adjustments cannot go negative
func (r *productRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("CASE WHEN stock + ? < 0 THEN 0 ELSE stock + ? END", delta, delta))

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
