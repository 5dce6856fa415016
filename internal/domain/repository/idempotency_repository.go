package repository

import (
	"context"

	"github.com/sangkips/stockledger-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations.
// A key is claimed before the request runs and completed or released after it.
type IdempotencyRepository interface {
	// GetByKey retrieves an unexpired idempotency key for an endpoint
	GetByKey(ctx context.Context, key, endpoint string) (*entity.IdempotencyKey, error)
	// Claim stores ikey unless an unexpired key already exists for the endpoint.
	// Returns false when another request holds the key.
	Claim(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error)
	// Complete stores the response of a claimed key and extends it to ikey.ExpiresAt
	Complete(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Release drops a claimed key that never completed
	Release(ctx context.Context, key, endpoint string) error
	// DeleteExpired removes expired idempotency keys and reports how many went
	DeleteExpired(ctx context.Context) (int64, error)
}
