package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdempotencyKey stores processed requests to prevent duplicates.
// ResponseCode is 0 while the claiming request is still running.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Key          string    `gorm:"uniqueIndex:idx_idempotency_key_endpoint;size:255;not null"`
	Endpoint     string    `gorm:"uniqueIndex:idx_idempotency_key_endpoint;size:255;not null"` // e.g. "POST /api/v1/sales"
	RequestHash  string    `gorm:"size:64"`
	ResponseCode int       `gorm:"not null;default:0"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// BeforeCreate generates a UUID before storing the key
func (i *IdempotencyKey) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsPending reports whether the claiming request has not finished yet
func (i *IdempotencyKey) IsPending() bool {
	return i.ResponseCode == 0
}
