package repository

import (
	"context"

	domainRepo "github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderedItems preloads line items in the order they were recorded
func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// listTransactions runs the shared sale/purchase listing: counterparty search,
// date range, most recent first.
func listTransactions[T any](query *gorm.DB, counterpartyCol string, params *domainRepo.TransactionFilterParams) ([]T, int64, error) {
	var records []T
	var total int64

	if params.Search != "" {
		query = query.Where(likeClause(counterpartyCol), likePattern(params.Search))
	}

	if params.StartDate != nil {
		query = query.Where("date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pageParams(params.Pagination)
	err := query.Offset(page.Offset()).Limit(page.PerPage).
		Preload("Items", orderedItems).
		Order("date DESC, created_at DESC").
		Find(&records).Error

	return records, total, err
}

func sumTotal(ctx context.Context, db *gorm.DB, model interface{}) (decimal.Decimal, error) {
	var result struct {
		Value decimal.Decimal
	}
	err := conn(ctx, db).Model(model).
		Select("COALESCE(SUM(total), 0) AS value").
		Scan(&result).Error
	return result.Value, err
}
