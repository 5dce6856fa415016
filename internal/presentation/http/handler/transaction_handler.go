package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockledger-api/internal/application/service"
	"github.com/sangkips/stockledger-api/internal/domain/enum"
	"github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/sangkips/stockledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stockledger-api/internal/presentation/http/dto/response"
)

// TransactionHandler handles sale and purchase HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// RecordSale handles recording a sale
func (h *TransactionHandler) RecordSale(c *gin.Context) {
	var req request.RecordSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := h.transactionService.RecordTransaction(c.Request.Context(), &service.RecordTransactionInput{
		Kind:         enum.TransactionKindSale,
		Counterparty: req.Client,
		Date:         req.Date,
		Items:        lineItems(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale recorded successfully", sale)
}

// ListSales handles listing sales
func (h *TransactionHandler) ListSales(c *gin.Context) {
	params, ok := transactionFilter(c)
	if !ok {
		return
	}

	result, err := h.transactionService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Sales retrieved successfully", result)
}

// GetSale handles getting a single sale
func (h *TransactionHandler) GetSale(c *gin.Context) {
	id, ok := parseID(c, "id", "sale")
	if !ok {
		return
	}

	sale, err := h.transactionService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// RecordPurchase handles recording a purchase
func (h *TransactionHandler) RecordPurchase(c *gin.Context) {
	var req request.RecordPurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	purchase, err := h.transactionService.RecordTransaction(c.Request.Context(), &service.RecordTransactionInput{
		Kind:         enum.TransactionKindPurchase,
		Counterparty: req.Supplier,
		Date:         req.Date,
		Items:        lineItems(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Purchase recorded successfully", purchase)
}

// ListPurchases handles listing purchases
func (h *TransactionHandler) ListPurchases(c *gin.Context) {
	params, ok := transactionFilter(c)
	if !ok {
		return
	}

	result, err := h.transactionService.ListPurchases(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Purchases retrieved successfully", result)
}

// GetPurchase handles getting a single purchase
func (h *TransactionHandler) GetPurchase(c *gin.Context) {
	id, ok := parseID(c, "id", "purchase")
	if !ok {
		return
	}

	purchase, err := h.transactionService.GetPurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase retrieved successfully", purchase)
}

func transactionFilter(c *gin.Context) (*repository.TransactionFilterParams, bool) {
	var filter request.TransactionFilterRequest
	if !bindQuery(c, &filter) {
		return nil, false
	}

	from, to, err := parseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}

	return &repository.TransactionFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		StartDate:  from,
		EndDate:    to,
	}, true
}

func lineItems(items []request.LineItemRequest) []service.LineItemInput {
	if items == nil {
		return nil
	}
	out := make([]service.LineItemInput, len(items))
	for i, item := range items {
		out[i] = service.LineItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return out
}
