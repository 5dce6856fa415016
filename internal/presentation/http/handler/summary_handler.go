package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockledger-api/internal/application/service"
	"github.com/sangkips/stockledger-api/internal/presentation/http/dto/response"
)

// SummaryHandler handles ledger summary requests
type SummaryHandler struct {
	summaryService *service.SummaryService
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// Get handles getting ledger statistics
func (h *SummaryHandler) Get(c *gin.Context) {
	summary, err := h.summaryService.GetSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Summary retrieved successfully", summary)
}
