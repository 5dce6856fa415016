package service

import (
	"context"

	"github.com/sangkips/stockledger-api/internal/domain/entity"
	"github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// SummaryService provides ledger-wide statistics
type SummaryService struct {
	productRepo       repository.ProductRepository
	saleRepo          repository.SaleRepository
	purchaseRepo      repository.PurchaseRepository
	analyticsRepo     repository.AnalyticsRepository
	lowStockThreshold int
}

// NewSummaryService creates a new summary service
func NewSummaryService(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	analyticsRepo repository.AnalyticsRepository,
	lowStockThreshold int,
) *SummaryService {
	return &SummaryService{
		productRepo:       productRepo,
		saleRepo:          saleRepo,
		purchaseRepo:      purchaseRepo,
		analyticsRepo:     analyticsRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

// Summary represents ledger statistics
type Summary struct {
	TotalProducts     int64                `json:"total_products"`
	TotalSales        int64                `json:"total_sales"`
	TotalPurchases    int64                `json:"total_purchases"`
	SalesAmount       decimal.Decimal      `json:"sales_amount"`
	PurchasesAmount   decimal.Decimal      `json:"purchases_amount"`
	StockValue        decimal.Decimal      `json:"stock_value"`
	LowStockThreshold int                  `json:"low_stock_threshold"`
	LowStock          []entity.Product     `json:"low_stock"`
	TopProducts       []TopProductPoint    `json:"top_products"`
	CategorySales     []CategorySalesPoint `json:"category_sales"`
}

// TopProductPoint represents a top selling product
type TopProductPoint struct {
	ProductID    string          `json:"product_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// CategorySalesPoint represents sales for one category
type CategorySalesPoint struct {
	Category   string          `json:"category"`
	TotalSales decimal.Decimal `json:"total_sales"`
	Percentage float64         `json:"percentage"`
}

// GetSummary gathers counts, amounts, stock valuation and low stock
func (s *SummaryService) GetSummary(ctx context.Context) (*Summary, error) {
	summary := &Summary{LowStockThreshold: s.lowStockThreshold}
	var err error

	if summary.TotalProducts, err = s.productRepo.Count(ctx); err != nil {
		return nil, err
	}
	if summary.TotalSales, err = s.saleRepo.Count(ctx); err != nil {
		return nil, err
	}
	if summary.TotalPurchases, err = s.purchaseRepo.Count(ctx); err != nil {
		return nil, err
	}
	if summary.SalesAmount, err = s.saleRepo.SumTotal(ctx); err != nil {
		return nil, err
	}
	if summary.PurchasesAmount, err = s.purchaseRepo.SumTotal(ctx); err != nil {
		return nil, err
	}
	if summary.StockValue, err = s.productRepo.StockValuation(ctx); err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.GetLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	summary.LowStock = append([]entity.Product{}, lowStock...)

	top, err := s.analyticsRepo.GetTopProducts(ctx, 5)
	if err != nil {
		return nil, err
	}
	summary.TopProducts = make([]TopProductPoint, 0, len(top))
	for _, t := range top {
		summary.TopProducts = append(summary.TopProducts, TopProductPoint{
			ProductID:    t.ProductID.String(),
			Code:         t.ProductCode,
			Name:         t.ProductName,
			QuantitySold: t.QuantitySold,
			Revenue:      t.Revenue,
		})
	}

	categories, err := s.analyticsRepo.GetSalesByCategory(ctx)
	if err != nil {
		return nil, err
	}
	grand := decimal.Zero
	for _, c := range categories {
		grand = grand.Add(c.TotalSales)
	}
	summary.CategorySales = make([]CategorySalesPoint, 0, len(categories))
	for _, c := range categories {
		point := CategorySalesPoint{Category: c.Category, TotalSales: c.TotalSales}
		if grand.IsPositive() {
			point.Percentage = c.TotalSales.Div(grand).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
		}
		summary.CategorySales = append(summary.CategorySales, point)
	}

	return summary, nil
}
