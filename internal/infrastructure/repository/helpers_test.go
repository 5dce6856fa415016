package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sangkips/stockledger-api/internal/domain/entity"
	"github.com/sangkips/stockledger-api/internal/infrastructure/database"
	"github.com/sangkips/stockledger-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a migrated in-memory database private to the test
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	log := logger.Discard()
	db, err := database.NewSQLiteDB(dsn, log, false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, log))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, code string, stock int, salePrice string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Code:      code,
		Name:      "Product " + code,
		Category:  "General",
		Stock:     stock,
		CostPrice: decimal.RequireFromString(salePrice).Div(decimal.NewFromInt(2)),
		SalePrice: decimal.RequireFromString(salePrice),
	}
	require.NoError(t, NewProductRepository(db).Create(context.Background(), p))
	return p
}

func stockOf(t *testing.T, db *gorm.DB, code string) int {
	t.Helper()
	p, err := NewProductRepository(db).GetByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}
