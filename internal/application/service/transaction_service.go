package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/config"
	"github.com/sangkips/stockledger-api/internal/domain/entity"
	"github.com/sangkips/stockledger-api/internal/domain/enum"
	"github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/sangkips/stockledger-api/internal/infrastructure/events"
	"github.com/sangkips/stockledger-api/pkg/apperror"
	"github.com/sangkips/stockledger-api/pkg/logger"
	"github.com/sangkips/stockledger-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	fallbackClient   = "Walk-in"
	fallbackSupplier = "Unknown"
)

// TransactionService records sales and purchases
type TransactionService struct {
	transactor   repository.Transactor
	inventory    *InventoryService
	saleRepo     repository.SaleRepository
	purchaseRepo repository.PurchaseRepository
	publisher    events.Publisher
	ledger       config.LedgerConfig
	log          *logrus.Logger
	now          func() time.Time
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactor repository.Transactor,
	inventory *InventoryService,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	publisher events.Publisher,
	ledger config.LedgerConfig,
	log *logrus.Logger,
) *TransactionService {
	return &TransactionService{
		transactor:   transactor,
		inventory:    inventory,
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		publisher:    publisher,
		ledger:       ledger,
		log:          log,
		now:          time.Now,
	}
}

// LineItemInput is one requested line.
// UnitPrice is ignored for sales and optional for purchases.
type LineItemInput struct {
	ProductID uuid.UUID        `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,nonneg_decimal"`
}

// RecordTransactionInput represents a sale or purchase request
type RecordTransactionInput struct {
	Kind         enum.TransactionKind `json:"kind"`
	Counterparty string               `json:"counterparty" validate:"max=255"`
	Date         *time.Time           `json:"date"`
	Items        []LineItemInput      `json:"items" validate:"required,min=1,dive"`
}

// RecordTransaction prices every line, applies its stock delta and stores the record.
// All lines and the record commit together: the first failure rolls back every
// stock change made by this call.
func (s *TransactionService) RecordTransaction(ctx context.Context, input *RecordTransactionInput) (entity.Transaction, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	var recorded entity.Transaction
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		lines := make([]entity.LineItem, 0, len(input.Items))
		for _, item := range input.Items {
			update, err := s.inventory.ApplyDelta(ctx, input.Kind, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			lines = append(lines, entity.NewLineItem(update.Product, item.Quantity, s.unitPrice(input.Kind, update.Product, item)))
		}

		totals := entity.ComputeTotals(lines, s.ledger.TaxRate)
		date := s.now().UTC()
		if input.Date != nil {
			date = input.Date.UTC()
		}

		switch input.Kind {
		case enum.TransactionKindSale:
			sale := entity.NewSale(date, s.counterparty(input), lines, totals)
			if err := s.saleRepo.Create(ctx, sale); err != nil {
				return err
			}
			recorded = sale
		default:
			purchase := entity.NewPurchase(date, s.counterparty(input), lines, totals)
			if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
				return err
			}
			recorded = purchase
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishRecorded(ctx, recorded)
	return recorded, nil
}

// RecordSale records a sale priced at each product's current sale price
func (s *TransactionService) RecordSale(ctx context.Context, client string, items []LineItemInput) (*entity.Sale, error) {
	tx, err := s.RecordTransaction(ctx, &RecordTransactionInput{
		Kind:         enum.TransactionKindSale,
		Counterparty: client,
		Items:        items,
	})
	if err != nil {
		return nil, err
	}
	return tx.(*entity.Sale), nil
}

// RecordPurchase records a purchase priced by the caller, falling back to cost price
func (s *TransactionService) RecordPurchase(ctx context.Context, supplier string, items []LineItemInput) (*entity.Purchase, error) {
	tx, err := s.RecordTransaction(ctx, &RecordTransactionInput{
		Kind:         enum.TransactionKindPurchase,
		Counterparty: supplier,
		Items:        items,
	})
	if err != nil {
		return nil, err
	}
	return tx.(*entity.Purchase), nil
}

// GetSale retrieves a sale by ID
func (s *TransactionService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales, most recent first
func (s *TransactionService) ListSales(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	params.Pagination = pageOrDefault(params.Pagination)
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// GetPurchase retrieves a purchase by ID
func (s *TransactionService) GetPurchase(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	return purchase, nil
}

// ListPurchases lists purchases, most recent first
func (s *TransactionService) ListPurchases(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Purchase], error) {
	params.Pagination = pageOrDefault(params.Pagination)
	purchases, total, err := s.purchaseRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(purchases, pag), nil
}

func (s *TransactionService) validate(input *RecordTransactionInput) error {
	if !input.Kind.IsValid() {
		return apperror.NewFieldValidationError("kind", "must be sale or purchase")
	}
	if err := validateInput(input); err != nil {
		return err
	}
	if limit := s.ledger.MaxItemsPerRecord; limit > 0 && len(input.Items) > limit {
		return apperror.NewFieldValidationError("items", "too many line items")
	}
	return nil
}

// unitPrice: a sale always uses the product's sale price; a purchase trusts the
// caller's price and falls back to the product's cost price.
func (s *TransactionService) unitPrice(kind enum.TransactionKind, product entity.Product, item LineItemInput) decimal.Decimal {
	if kind == enum.TransactionKindSale {
		return product.SalePrice
	}
	if item.UnitPrice != nil {
		return *item.UnitPrice
	}
	return product.CostPrice
}

func (s *TransactionService) counterparty(input *RecordTransactionInput) string {
	if name := strings.TrimSpace(input.Counterparty); name != "" {
		return name
	}
	if input.Kind == enum.TransactionKindSale {
		return firstNonEmpty(s.ledger.DefaultClient, fallbackClient)
	}
	return firstNonEmpty(s.ledger.DefaultSupplier, fallbackSupplier)
}

func (s *TransactionService) publishRecorded(ctx context.Context, tx entity.Transaction) {
	eventType := events.EventSaleRecorded
	if tx.Kind() == enum.TransactionKindPurchase {
		eventType = events.EventPurchaseRecorded
	}

	lines := tx.LineItems()
	items := make([]events.LineQty, len(lines))
	for i, line := range lines {
		items[i] = events.LineQty{
			ProductID: line.ProductID.String(),
			Code:      line.Code,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.StringFixed(2),
		}
	}
	totals := tx.GetTotals()

	env, err := events.NewEnvelope(eventType, tx.GetID().String(), events.TransactionRecordedPayload{
		TransactionID: tx.GetID().String(),
		Kind:          tx.Kind().String(),
		Counterparty:  tx.Counterparty(),
		Items:         items,
		Subtotal:      totals.Subtotal.StringFixed(2),
		Tax:           totals.Tax.StringFixed(2),
		Total:         totals.Total.StringFixed(2),
	})
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil {
		logger.LogError(s.log, "TransactionService", "publishRecorded", eventType, tx.GetID().String(), err)
	}
}
