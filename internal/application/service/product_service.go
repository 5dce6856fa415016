package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/domain/entity"
	"github.com/sangkips/stockledger-api/internal/domain/repository"
	infraRepo "github.com/sangkips/stockledger-api/internal/infrastructure/repository"
	"github.com/sangkips/stockledger-api/internal/infrastructure/storage"
	"github.com/sangkips/stockledger-api/pkg/apperror"
	"github.com/sangkips/stockledger-api/pkg/logger"
	"github.com/sangkips/stockledger-api/pkg/pagination"
	"github.com/sangkips/stockledger-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
	photos      storage.PhotoStore
	log         *logrus.Logger
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	photos storage.PhotoStore,
	log *logrus.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		photos:      photos,
		log:         log,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Code      string          `json:"code" validate:"max=100"`
	Name      string          `json:"name" validate:"required,max=255"`
	Category  string          `json:"category" validate:"max=255"`
	Stock     int             `json:"stock"`
	CostPrice decimal.Decimal `json:"cost_price" validate:"nonneg_decimal"`
	SalePrice decimal.Decimal `json:"sale_price" validate:"nonneg_decimal"`
	Supplier  string          `json:"supplier" validate:"max=255"`
	// Photo is an optional base64 image or data URL
	Photo string `json:"photo"`
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	// Auto-generate code if not provided
	code := strings.TrimSpace(input.Code)
	if code == "" {
		code = utils.GenerateProductCode()
	}

	if err := s.ensureCodeFree(ctx, code, uuid.Nil); err != nil {
		return nil, err
	}

	product := &entity.Product{
		Code:      code,
		Name:      input.Name,
		Category:  strings.TrimSpace(input.Category),
		Stock:     max(input.Stock, 0),
		CostPrice: entity.RoundMoney(input.CostPrice),
		SalePrice: entity.RoundMoney(input.SalePrice),
		Supplier:  strings.TrimSpace(input.Supplier),
	}

	if input.Photo != "" {
		photo, err := s.uploadPhoto(ctx, input.Photo)
		if err != nil {
			return nil, err
		}
		product.PhotoURL = &photo.URL
		product.PhotoID = &photo.ID
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.releasePhoto(ctx, product.PhotoID)
		if infraRepo.IsDuplicateKey(err) {
			return nil, apperror.NewDuplicateKeyError("Product code already exists")
		}
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering, most recent first
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	params.Pagination = pageOrDefault(params.Pagination)
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// SearchProducts matches query against code, name and category, ignoring case
func (s *ProductService) SearchProducts(ctx context.Context, query string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Product], error) {
	return s.ListProducts(ctx, &repository.ProductFilterParams{
		Pagination: params,
		Search:     strings.TrimSpace(query),
	})
}

// UpdateProductInput represents the update product input.
// Stock is not editable here; use the inventory endpoints.
type UpdateProductInput struct {
	Code      *string          `json:"code" validate:"omitempty,max=100"`
	Name      *string          `json:"name" validate:"omitempty,max=255"`
	Category  *string          `json:"category" validate:"omitempty,max=255"`
	CostPrice *decimal.Decimal `json:"cost_price" validate:"omitempty,nonneg_decimal"`
	SalePrice *decimal.Decimal `json:"sale_price" validate:"omitempty,nonneg_decimal"`
	Supplier  *string          `json:"supplier" validate:"omitempty,max=255"`
	// Photo replaces the current photo; an empty string removes it
	Photo *string `json:"photo"`
}

// UpdateProduct updates catalogue fields of a product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Code != nil {
		code := strings.TrimSpace(*input.Code)
		if code == "" {
			return nil, apperror.NewFieldValidationError("code", "must not be empty")
		}
		if code != product.Code {
			if err := s.ensureCodeFree(ctx, code, product.ID); err != nil {
				return nil, err
			}
			product.Code = code
		}
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldValidationError("name", "must not be empty")
		}
		product.Name = name
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.CostPrice != nil {
		product.CostPrice = entity.RoundMoney(*input.CostPrice)
	}
	if input.SalePrice != nil {
		product.SalePrice = entity.RoundMoney(*input.SalePrice)
	}
	if input.Supplier != nil {
		product.Supplier = strings.TrimSpace(*input.Supplier)
	}

	oldPhotoID := product.PhotoID
	var newPhotoID *string
	if input.Photo != nil {
		if *input.Photo == "" {
			product.PhotoURL = nil
			product.PhotoID = nil
		} else {
			photo, err := s.uploadPhoto(ctx, *input.Photo)
			if err != nil {
				return nil, err
			}
			product.PhotoURL = &photo.URL
			product.PhotoID = &photo.ID
			newPhotoID = product.PhotoID
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.releasePhoto(ctx, newPhotoID)
		if infraRepo.IsDuplicateKey(err) {
			return nil, apperror.NewDuplicateKeyError("Product code already exists")
		}
		return nil, err
	}

	if input.Photo != nil {
		s.releasePhoto(ctx, oldPhotoID)
	}

	return s.GetProduct(ctx, id)
}

// DeleteProduct deletes a product and releases its photo.
// Recorded sales and purchases keep their own snapshot of the product.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.releasePhoto(ctx, product.PhotoID)
	return nil
}

// GetLowStockProducts returns products at or below threshold
func (s *ProductService) GetLowStockProducts(ctx context.Context, threshold int) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx, threshold)
}

func (s *ProductService) ensureCodeFree(ctx context.Context, code string, self uuid.UUID) error {
	existing, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewDuplicateKeyError(fmt.Sprintf("Product code '%s' already exists", code))
	}
	return nil
}

func (s *ProductService) uploadPhoto(ctx context.Context, payload string) (*storage.Photo, error) {
	if s.photos == nil {
		return nil, apperror.NewBadRequestError("Photo uploads are disabled")
	}
	photo, err := s.photos.Upload(ctx, payload)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		logger.LogError(s.log, "ProductService", "uploadPhoto", "upload", nil, err)
		return nil, apperror.NewUnexpectedError("Failed to upload photo", err)
	}
	return photo, nil
}

// releasePhoto logs failures instead of returning them; the product change is already decided
func (s *ProductService) releasePhoto(ctx context.Context, id *string) {
	if id == nil || *id == "" || s.photos == nil {
		return
	}
	if err := s.photos.Delete(ctx, *id); err != nil {
		logger.LogError(s.log, "ProductService", "releasePhoto", "delete", *id, err)
	}
}
