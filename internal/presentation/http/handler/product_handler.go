package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockledger-api/internal/application/service"
	"github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/sangkips/stockledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stockledger-api/internal/presentation/http/dto/response"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService    *service.ProductService
	inventoryService  *service.InventoryService
	lowStockThreshold int
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService, inventoryService *service.InventoryService, lowStockThreshold int) *ProductHandler {
	return &ProductHandler{
		productService:    productService,
		inventoryService:  inventoryService,
		lowStockThreshold: lowStockThreshold,
	}
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	result, err := h.productService.ListProducts(c.Request.Context(), &repository.ProductFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		Category:   filter.Category,
		LowStock:   filter.LowStock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Products retrieved successfully", result)
}

// Search handles free-text product search over code, name and category
func (h *ProductHandler) Search(c *gin.Context) {
	var filter request.ProductFilterRequest
	if !bindQuery(c, &filter) {
		return
	}
	query := c.Query("q")
	if query == "" {
		query = filter.Search
	}

	result, err := h.productService.SearchProducts(c.Request.Context(), query, pageParams(filter.Page, filter.PerPage))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Products retrieved successfully", result)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		Code:      req.Code,
		Name:      req.Name,
		Category:  req.Category,
		Stock:     req.Stock,
		CostPrice: req.CostPrice,
		SalePrice: req.SalePrice,
		Supplier:  req.Supplier,
		Photo:     req.Photo,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Import handles bulk product creation from an uploaded .xlsx file
func (h *ProductHandler) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "A .xlsx file is required in the 'file' field")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer f.Close()

	rows, err := service.ParseProductSheet(f)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.productService.ImportProducts(c.Request.Context(), rows)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Products imported", result)
}

// Get handles getting a single product
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating catalogue fields of a product
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	var req request.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &service.UpdateProductInput{
		Code:      req.Code,
		Name:      req.Name,
		Category:  req.Category,
		CostPrice: req.CostPrice,
		SalePrice: req.SalePrice,
		Supplier:  req.Supplier,
		Photo:     req.Photo,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// AdjustStock handles a manual stock entry or exit
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	var req request.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.inventoryService.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock adjusted successfully", product)
}

// GetLowStock handles listing products at or below the threshold
func (h *ProductHandler) GetLowStock(c *gin.Context) {
	threshold := h.lowStockThreshold
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(c, "Invalid threshold")
			return
		}
		threshold = n
	}

	products, err := h.productService.GetLowStockProducts(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}
