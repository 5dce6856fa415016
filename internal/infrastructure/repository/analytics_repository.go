package repository

import (
	"context"

	domainRepo "github.com/sangkips/stockledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// GetTopProducts ranks products by sale revenue using the snapshot code and name
// stored on each line, so deleted products still appear.
func (r *analyticsRepository) GetTopProducts(ctx context.Context, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := conn(ctx, r.db).Raw(`
		SELECT
			si.product_id AS product_id,
			MAX(si.name) AS product_name,
			MAX(si.code) AS product_code,
			COALESCE(SUM(si.quantity), 0) AS quantity_sold,
			COALESCE(SUM(si.subtotal), 0) AS revenue
		FROM sale_items si
		GROUP BY si.product_id
		ORDER BY revenue DESC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetSalesByCategory(ctx context.Context) ([]domainRepo.CategorySalesResult, error) {
	var results []domainRepo.CategorySalesResult

	err := conn(ctx, r.db).Raw(`
		SELECT
			COALESCE(NULLIF(p.category, ''), 'Uncategorized') AS category,
			COALESCE(SUM(si.subtotal), 0) AS total_sales,
			COUNT(si.id) AS line_count
		FROM sale_items si
		LEFT JOIN products p ON p.id = si.product_id
		GROUP BY COALESCE(NULLIF(p.category, ''), 'Uncategorized')
		ORDER BY total_sales DESC
	`).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}
