package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/domain/entity"
	"github.com/sangkips/stockledger-api/internal/domain/enum"
	"github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/sangkips/stockledger-api/pkg/apperror"
	"github.com/sangkips/stockledger-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// PaymentService logs payments to suppliers and collections from clients.
// Records are a passive append: the referenced transaction is not looked up.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	now         func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo repository.PaymentRepository) *PaymentService {
	return &PaymentService{paymentRepo: paymentRepo, now: time.Now}
}

// RecordPaymentInput represents a payment or collection
type RecordPaymentInput struct {
	Kind         enum.PaymentKind `json:"kind"`
	Amount       decimal.Decimal  `json:"amount" validate:"positive_decimal"`
	Method       string           `json:"method" validate:"max=100"`
	Reference    string           `json:"reference" validate:"max=100"`
	Counterparty string           `json:"counterparty" validate:"max=255"`
	Date         *time.Time       `json:"date"`
}

// RecordPayment stores a payment record
func (s *PaymentService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*entity.PaymentRecord, error) {
	if !input.Kind.IsValid() {
		return nil, apperror.NewFieldValidationError("kind", "must be payment or collection")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	date := s.now().UTC()
	if input.Date != nil {
		date = input.Date.UTC()
	}

	record := &entity.PaymentRecord{
		Kind:         input.Kind,
		Amount:       entity.RoundMoney(input.Amount),
		Method:       strings.TrimSpace(input.Method),
		Reference:    strings.TrimSpace(input.Reference),
		Counterparty: strings.TrimSpace(input.Counterparty),
		Date:         date,
	}

	if err := s.paymentRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetPayment retrieves a payment record by ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.PaymentRecord, error) {
	record, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.NewNotFoundError("Payment record")
	}
	return record, nil
}

// ListPayments lists payment records, most recent first
func (s *PaymentService) ListPayments(ctx context.Context, params *repository.PaymentFilterParams) (*pagination.PaginatedResult[entity.PaymentRecord], error) {
	params.Pagination = pageOrDefault(params.Pagination)
	records, total, err := s.paymentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(records, pag), nil
}
