package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentRecord logs money moving against a prior transaction.
// The reference is not checked against the transaction's balance.
type PaymentRecord struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Kind         enum.PaymentKind `gorm:"not null;default:0;index" json:"kind"`
	Amount       decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method       string           `gorm:"size:100" json:"method"`
	Reference    string           `gorm:"size:100;index" json:"reference"`
	Counterparty string           `gorm:"size:255" json:"counterparty"`
	Date         time.Time        `gorm:"not null;index" json:"date"`
	CreatedAt    time.Time        `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new payment record
func (p *PaymentRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentRecord model
func (PaymentRecord) TableName() string {
	return "payment_records"
}
