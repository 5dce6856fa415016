package service

import (
	"strings"

	"github.com/sangkips/stockledger-api/pkg/pagination"
)

func pageOrDefault(p *pagination.PaginationParams) *pagination.PaginationParams {
	if p == nil {
		p = pagination.DefaultPagination()
	}
	p.Validate()
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
