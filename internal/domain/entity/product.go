package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a stocked item. Stock only changes through the ledger.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Code      string          `gorm:"size:100;uniqueIndex;not null" json:"code"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Category  string          `gorm:"size:255;index" json:"category"`
	Stock     int             `gorm:"not null;default:0" json:"stock"`
	CostPrice decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"cost_price"`
	SalePrice decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"sale_price"`
	Supplier  string          `gorm:"size:255" json:"supplier"`
	PhotoURL  *string         `gorm:"size:512" json:"photo_url,omitempty"`
	PhotoID   *string         `gorm:"size:255" json:"photo_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// StockValue is the product's stock valued at cost
func (p *Product) StockValue() decimal.Decimal {
	return p.CostPrice.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// HasPhoto reports whether a stored photo is attached
func (p *Product) HasPhoto() bool {
	return p.PhotoID != nil && *p.PhotoID != ""
}

// StockUpdate is the outcome of applying a ledger delta to one product.
// Product is the snapshot taken before the change.
type StockUpdate struct {
	Product  Product `json:"product"`
	NewStock int     `json:"new_stock"`
}
