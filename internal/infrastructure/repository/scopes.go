package repository

import (
	"context"
	"errors"
	"strings"

	domainRepo "github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/sangkips/stockledger-api/pkg/pagination"
	"gorm.io/gorm"
)

type ctxKey string

// TxKey is the context key carrying the active *gorm.DB transaction
const TxKey ctxKey = "gorm_tx"

// WithTx adds a transaction handle to context
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, TxKey, tx)
}

// GetTx extracts the transaction handle from context
func GetTx(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(TxKey).(*gorm.DB)
	return tx, ok
}

// conn returns the transaction in ctx if there is one, otherwise db
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := GetTx(ctx); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

type transactor struct {
	db *gorm.DB
}

// NewTransactor creates a unit of work backed by gorm transactions
func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &transactor{db: db}
}

// WithinTransaction joins an outer transaction when ctx already carries one
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := GetTx(ctx); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}

// IsDuplicateKey reports a unique constraint violation from any supported driver
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// likeEscape must follow every LIKE that binds a likePattern
const likeEscape = ` ESCAPE '\'`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-insensitive substring pattern for LOWER(col) LIKE ?.
// Wildcards in s match literally.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// likeClause is "LOWER(col) LIKE ? ESCAPE '\'"
func likeClause(col string) string {
	return "LOWER(" + col + ") LIKE ?" + likeEscape
}

// pageParams validates p, falling back to the default page
func pageParams(p *pagination.PaginationParams) *pagination.PaginationParams {
	if p == nil {
		p = pagination.DefaultPagination()
	}
	p.Validate()
	return p
}
