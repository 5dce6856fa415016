package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockledger-api/internal/application/service"
	"github.com/sangkips/stockledger-api/internal/domain/enum"
	"github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/sangkips/stockledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stockledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/stockledger-api/pkg/apperror"
)

// PaymentHandler handles payment and collection HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Record handles recording a payment or collection
func (h *PaymentHandler) Record(c *gin.Context) {
	var req request.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.paymentService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		Kind:         req.Kind,
		Amount:       req.Amount,
		Method:       req.Method,
		Reference:    req.Reference,
		Counterparty: req.Counterparty,
		Date:         req.Date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", record)
}

// List handles listing payment records
func (h *PaymentHandler) List(c *gin.Context) {
	var filter request.PaymentFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	params := &repository.PaymentFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Reference:  filter.Reference,
	}
	if filter.Kind != "" {
		kind, err := enum.ParsePaymentKind(filter.Kind)
		if err != nil {
			response.Error(c, apperror.NewFieldValidationError("kind", "must be payment or collection"))
			return
		}
		params.Kind = &kind
	}

	result, err := h.paymentService.ListPayments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Payments retrieved successfully", result)
}

// Get handles getting a single payment record
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "payment")
	if !ok {
		return
	}

	record, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", record)
}
