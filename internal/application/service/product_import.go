package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sangkips/stockledger-api/internal/domain/entity"
	"github.com/sangkips/stockledger-api/pkg/apperror"
	"github.com/sangkips/stockledger-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ImportProductRow represents a single row from the import file.
// Numeric cells are kept as text and parsed during validation.
type ImportProductRow struct {
	Code      string
	Name      string
	Category  string
	Stock     string
	CostPrice string
	SalePrice string
	Supplier  string
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

var importColumns = []string{"code", "name", "category", "stock", "cost_price", "sale_price", "supplier"}

// ParseProductSheet reads the first sheet of an .xlsx workbook.
// Row 1 is a header naming the columns; order does not matter and only "name" is mandatory.
func ParseProductSheet(r io.Reader) ([]ImportProductRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewFieldValidationError("file", "file is not a valid .xlsx workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperror.NewFieldValidationError("file", "workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperror.NewUnexpectedError("Failed to read sheet", err)
	}
	if len(rows) == 0 {
		return nil, apperror.NewFieldValidationError("file", "sheet is empty")
	}

	index := make(map[string]int, len(importColumns))
	for i, header := range rows[0] {
		index[utils.ColumnKey(header)] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, apperror.NewFieldValidationError("file", "header row must contain a name column")
	}

	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	parsed := make([]ImportProductRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		parsed = append(parsed, ImportProductRow{
			Code:      cell(row, "code"),
			Name:      cell(row, "name"),
			Category:  cell(row, "category"),
			Stock:     cell(row, "stock"),
			CostPrice: cell(row, "cost_price"),
			SalePrice: cell(row, "sale_price"),
			Supplier:  cell(row, "supplier"),
		})
	}
	return parsed, nil
}

// ImportProducts validates and bulk-creates products from parsed import rows.
// Invalid rows are reported and skipped; valid rows are created together.
func (s *ProductService) ImportProducts(ctx context.Context, rows []ImportProductRow) (*ImportResult, error) {
	result := &ImportResult{TotalRows: len(rows)}
	var rowErrors []ImportRowError

	// Codes already in the store
	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Code != "" {
			codes = append(codes, row.Code)
		}
	}
	existing, err := s.productRepo.GetByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(existing))
	for _, p := range existing {
		taken[p.Code] = true
	}

	// Track codes seen in this import batch to detect duplicates within the file
	seenCodes := make(map[string]int)

	var validProducts []entity.Product

	for i, row := range rows {
		rowNum := i + 2 // row 1 is the header

		product, rowErr := parseImportRow(row, rowNum)
		if rowErr != nil {
			rowErrors = append(rowErrors, *rowErr)
			continue
		}

		if prevRow, exists := seenCodes[product.Code]; exists {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "code",
				Message: fmt.Sprintf("Duplicate code '%s' (same as row %d)", product.Code, prevRow),
			})
			continue
		}

		if taken[product.Code] {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "code",
				Message: fmt.Sprintf("Product code '%s' already exists", product.Code),
			})
			continue
		}

		seenCodes[product.Code] = rowNum
		validProducts = append(validProducts, *product)
	}

	if len(validProducts) > 0 {
		if err := s.productRepo.CreateBatch(ctx, validProducts); err != nil {
			return nil, apperror.NewUnexpectedError("Failed to import products", err)
		}
	}

	result.Successful = len(validProducts)
	result.Failed = len(rowErrors)
	result.Errors = rowErrors

	return result, nil
}

func parseImportRow(row ImportProductRow, rowNum int) (*entity.Product, *ImportRowError) {
	if row.Name == "" {
		return nil, &ImportRowError{Row: rowNum, Field: "name", Message: "Name is required"}
	}

	code := row.Code
	if code == "" {
		code = utils.GenerateProductCode()
	}

	stock := 0
	if row.Stock != "" {
		n, err := strconv.Atoi(row.Stock)
		if err != nil {
			return nil, &ImportRowError{Row: rowNum, Field: "stock", Message: "Stock must be a whole number"}
		}
		stock = max(n, 0)
	}

	cost, rowErr := parseImportPrice(row.CostPrice, "cost_price", rowNum)
	if rowErr != nil {
		return nil, rowErr
	}
	sale, rowErr := parseImportPrice(row.SalePrice, "sale_price", rowNum)
	if rowErr != nil {
		return nil, rowErr
	}

	return &entity.Product{
		Code:      code,
		Name:      row.Name,
		Category:  row.Category,
		Stock:     stock,
		CostPrice: cost,
		SalePrice: sale,
		Supplier:  row.Supplier,
	}, nil
}

func parseImportPrice(raw, field string, rowNum int) (decimal.Decimal, *ImportRowError) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &ImportRowError{Row: rowNum, Field: field, Message: "Price must be a number"}
	}
	if d.IsNegative() {
		return decimal.Zero, &ImportRowError{Row: rowNum, Field: field, Message: "Price must not be negative"}
	}
	return entity.RoundMoney(d), nil
}
