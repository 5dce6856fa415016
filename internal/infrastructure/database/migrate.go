package database

import (
	"fmt"

	"github.com/sangkips/stockledger-api/internal/domain/entity"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log logrus.FieldLogger) error {
	log.Info("Running database migrations...")

	err := db.AutoMigrate(
		&entity.Product{},

		// Ledger records
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.Purchase{},
		&entity.PurchaseItem{},
		&entity.PaymentRecord{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}
