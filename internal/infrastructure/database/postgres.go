package database

import (
	"fmt"

	"github.com/sangkips/stockledger-api/internal/config"
	"github.com/sangkips/stockledger-api/pkg/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, log *logrus.Logger, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), gormConfig(log, debug))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("Successfully connected to PostgreSQL database")
	return db, nil
}

// Open connects to the configured driver
func Open(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "postgres", "":
		return NewPostgresDB(&cfg.Database, log, cfg.App.Debug)
	case "sqlite":
		return NewSQLiteDB(cfg.Database.Path, log, cfg.App.Debug)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// gormConfig turns on error translation so unique violations surface as gorm.ErrDuplicatedKey
func gormConfig(log *logrus.Logger, debug bool) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.GormLogger(log, debug),
		TranslateError: true,
	}
}
