package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/domain/entity"
	"github.com/sangkips/stockledger-api/internal/domain/enum"
	"github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/sangkips/stockledger-api/internal/infrastructure/events"
	"github.com/sangkips/stockledger-api/pkg/apperror"
	"github.com/sangkips/stockledger-api/pkg/logger"
	"github.com/sirupsen/logrus"
)

// InventoryService owns the stock count of every product.
// Each delta is a single conditional update, so concurrent sales cannot oversell.
type InventoryService struct {
	productRepo repository.ProductRepository
	publisher   events.Publisher
	log         *logrus.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	productRepo repository.ProductRepository,
	publisher events.Publisher,
	log *logrus.Logger,
) *InventoryService {
	return &InventoryService{
		productRepo: productRepo,
		publisher:   publisher,
		log:         log,
	}
}

// ApplySaleDelta removes quantity units from stock.
// Fails with NotFound for an unknown product and InsufficientStock when stock < quantity.
func (s *InventoryService) ApplySaleDelta(ctx context.Context, productID uuid.UUID, quantity int) (*entity.StockUpdate, error) {
	if quantity < 1 {
		return nil, apperror.NewFieldValidationError("quantity", "must be at least 1")
	}

	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	ok, err := s.productRepo.DecrementStock(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The conditional update matched nothing: find out why
		current, err := s.getProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		return nil, apperror.NewInsufficientStockError(apperror.StockShortage{
			ProductID: current.ID,
			Code:      current.Code,
			Requested: quantity,
			Available: current.Stock,
		})
	}

	return s.stockUpdate(ctx, *product)
}

// ApplyPurchaseDelta adds quantity units to stock. There is no upper bound.
func (s *InventoryService) ApplyPurchaseDelta(ctx context.Context, productID uuid.UUID, quantity int) (*entity.StockUpdate, error) {
	if quantity < 1 {
		return nil, apperror.NewFieldValidationError("quantity", "must be at least 1")
	}

	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	ok, err := s.productRepo.IncrementStock(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewNotFoundError("Product")
	}

	return s.stockUpdate(ctx, *product)
}

// ApplyDelta dispatches to the sale or purchase delta for kind
func (s *InventoryService) ApplyDelta(ctx context.Context, kind enum.TransactionKind, productID uuid.UUID, quantity int) (*entity.StockUpdate, error) {
	if kind == enum.TransactionKindSale {
		return s.ApplySaleDelta(ctx, productID, quantity)
	}
	return s.ApplyPurchaseDelta(ctx, productID, quantity)
}

// AdjustStock applies a manual entry (positive) or exit (negative).
// Unlike a sale, an exit larger than stock is clamped to zero instead of rejected.
func (s *InventoryService) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (*entity.Product, error) {
	if delta == 0 {
		return nil, apperror.NewFieldValidationError("delta", "must not be zero")
	}

	ok, err := s.productRepo.AdjustStock(ctx, productID, delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewNotFoundError("Product")
	}

	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventStockAdjusted, product.ID.String(), events.StockAdjustedPayload{
		ProductID: product.ID.String(),
		Code:      product.Code,
		Delta:     delta,
		NewStock:  product.Stock,
	})

	return product, nil
}

func (s *InventoryService) getProduct(ctx context.Context, productID uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// stockUpdate pairs the pre-change snapshot with the stored stock level
func (s *InventoryService) stockUpdate(ctx context.Context, before entity.Product) (*entity.StockUpdate, error) {
	after, err := s.getProduct(ctx, before.ID)
	if err != nil {
		return nil, err
	}
	return &entity.StockUpdate{Product: before, NewStock: after.Stock}, nil
}

// publish never fails the caller; the stock change is already stored
func (s *InventoryService) publish(ctx context.Context, eventType, correlationID string, payload any) {
	env, err := events.NewEnvelope(eventType, correlationID, payload)
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil {
		logger.LogError(s.log, "InventoryService", "publish", eventType, correlationID, err)
	}
}
