package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is a recorded Sale or Purchase. Records are immutable once stored.
type Transaction interface {
	GetID() uuid.UUID
	Kind() enum.TransactionKind
	Counterparty() string
	LineItems() []LineItem
	GetTotals() Totals
	OccurredAt() time.Time
}

// LineItem is a denormalized snapshot of one product line at the time it was recorded
type LineItem struct {
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Code      string          `gorm:"size:100;not null" json:"code"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"subtotal"`
}

// CurrencyPlaces is the precision every stored amount is kept at
const CurrencyPlaces = 2

// RoundMoney rounds half away from zero to cents
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// NewLineItem snapshots the product and prices the line. The unit price is rounded to cents first.
func NewLineItem(p Product, quantity int, unitPrice decimal.Decimal) LineItem {
	price := RoundMoney(unitPrice)
	return LineItem{
		ProductID: p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Quantity:  quantity,
		UnitPrice: price,
		Subtotal:  RoundMoney(price.Mul(decimal.NewFromInt(int64(quantity)))),
	}
}

// Totals are the aggregate amounts of a transaction
type Totals struct {
	Subtotal decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"subtotal"`
	TaxRate  decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0" json:"tax_rate"`
	Tax      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"tax"`
	Total    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total"`
}

// ComputeTotals sums the line subtotals and applies the tax rate.
// Tax is rounded to cents; total is subtotal plus the rounded tax.
func ComputeTotals(items []LineItem, rate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal)
	}
	subtotal = RoundMoney(subtotal)
	tax := RoundMoney(subtotal.Mul(rate))
	return Totals{
		Subtotal: subtotal,
		TaxRate:  rate,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// Sale decrements stock and is owed by a client
type Sale struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Date      time.Time  `gorm:"not null;index" json:"date"`
	Client    string     `gorm:"size:255;not null;index" json:"client"`
	Totals    `gorm:"embedded"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

func (s *Sale) GetID() uuid.UUID           { return s.ID }
func (s *Sale) Kind() enum.TransactionKind { return enum.TransactionKindSale }
func (s *Sale) Counterparty() string       { return s.Client }
func (s *Sale) GetTotals() Totals          { return s.Totals }
func (s *Sale) OccurredAt() time.Time      { return s.Date }

func (s *Sale) LineItems() []LineItem {
	items := make([]LineItem, len(s.Items))
	for i, item := range s.Items {
		items[i] = item.LineItem
	}
	return items
}

// SaleItem is one line of a sale
type SaleItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SaleID   uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	Position int       `gorm:"not null" json:"position"`
	LineItem `gorm:"embedded"`
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// Purchase increments stock and is owed to a supplier
type Purchase struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Date      time.Time      `gorm:"not null;index" json:"date"`
	Supplier  string         `gorm:"size:255;not null;index" json:"supplier"`
	Totals    `gorm:"embedded"`
	CreatedAt time.Time      `json:"created_at"`
	Items     []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items"`
}

// BeforeCreate generates a UUID before creating a new purchase
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}

func (p *Purchase) GetID() uuid.UUID           { return p.ID }
func (p *Purchase) Kind() enum.TransactionKind { return enum.TransactionKindPurchase }
func (p *Purchase) Counterparty() string       { return p.Supplier }
func (p *Purchase) GetTotals() Totals          { return p.Totals }
func (p *Purchase) OccurredAt() time.Time      { return p.Date }

func (p *Purchase) LineItems() []LineItem {
	items := make([]LineItem, len(p.Items))
	for i, item := range p.Items {
		items[i] = item.LineItem
	}
	return items
}

// PurchaseItem is one line of a purchase
type PurchaseItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseID uuid.UUID `gorm:"type:uuid;not null;index" json:"purchase_id"`
	Position   int       `gorm:"not null" json:"position"`
	LineItem   `gorm:"embedded"`
}

// BeforeCreate generates a UUID before creating a new purchase item
func (pi *PurchaseItem) BeforeCreate(tx *gorm.DB) error {
	if pi.ID == uuid.Nil {
		pi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseItem model
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// NewSale assembles a sale from resolved lines, keeping caller order
func NewSale(date time.Time, client string, lines []LineItem, totals Totals) *Sale {
	sale := &Sale{Date: date, Client: client, Totals: totals}
	sale.Items = make([]SaleItem, len(lines))
	for i, line := range lines {
		sale.Items[i] = SaleItem{Position: i, LineItem: line}
	}
	return sale
}

// NewPurchase assembles a purchase from resolved lines, keeping caller order
func NewPurchase(date time.Time, supplier string, lines []LineItem, totals Totals) *Purchase {
	purchase := &Purchase{Date: date, Supplier: supplier, Totals: totals}
	purchase.Items = make([]PurchaseItem, len(lines))
	for i, line := range lines {
		purchase.Items[i] = PurchaseItem{Position: i, LineItem: line}
	}
	return purchase
}
