package handlers

import (
	"net/http"

	"poultry_nexus_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ProductHandler exposes the product catalog.
type ProductHandler struct {
	productService services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(ps services.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

// CreateProduct handles creation of a product.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "CreateProduct: Failed to bind JSON", err)
		return
	}

	product, err := h.productService.CreateProduct(req)
	if err != nil {
		respondServiceError(c, "CreateProduct: Error from productService.CreateProduct", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetProductByID returns one product.
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProductByID(id)
	if err != nil {
		respondServiceError(c, "GetProductByID: Error from productService.GetProductByID", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetProducts lists products, optionally filtered by a search term.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	page, pageSize := parsePagination(c)
	var search *string
	if raw := c.Query("search"); raw != "" {
		search = &raw
	}

	products, total, err := h.productService.GetProducts(search, page, pageSize)
	if err != nil {
		respondServiceError(c, "GetProducts: Error from productService.GetProducts", err)
		return
	}
	c.JSON(http.StatusOK, paginatedResponse(products, total, page, pageSize))
}

// UpdateProduct updates a product's fields.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "UpdateProduct: Failed to bind JSON", err)
		return
	}

	product, err := h.productService.UpdateProduct(id, req)
	if err != nil {
		respondServiceError(c, "UpdateProduct: Error from productService.UpdateProduct", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product without stock history.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		respondServiceError(c, "DeleteProduct: Error from productService.DeleteProduct", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully."})
}
