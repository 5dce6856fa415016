package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/stockledger-api/pkg/apperror"
	"github.com/sangkips/stockledger-api/pkg/pagination"
)

const dateLayout = "2006-01-02"

// parseID reads a UUID path parameter, writing a 400 when it is malformed
func parseID(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+resource+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the body, writing a 400 on malformed input
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// bindQuery decodes query parameters, writing a 400 on malformed input
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return false
	}
	return true
}

func pageParams(page, perPage int) *pagination.PaginationParams {
	return &pagination.PaginationParams{Page: page, PerPage: perPage}
}

// parseDateRange parses inclusive YYYY-MM-DD bounds; the end bound covers the whole day
func parseDateRange(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if start != "" {
		t, err := time.Parse(dateLayout, start)
		if err != nil {
			return nil, nil, apperror.NewFieldValidationError("start_date", "must be YYYY-MM-DD")
		}
		from = &t
	}
	if end != "" {
		t, err := time.Parse(dateLayout, end)
		if err != nil {
			return nil, nil, apperror.NewFieldValidationError("end_date", "must be YYYY-MM-DD")
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		to = &t
	}
	return from, to, nil
}
