package handlers

import (
	"net/http"

	"poultry_nexus_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// DimensionHandler exposes the dimension registry and product attachments.
type DimensionHandler struct {
	dimensionService services.DimensionService
}

// NewDimensionHandler creates a new DimensionHandler.
func NewDimensionHandler(ds services.DimensionService) *DimensionHandler {
	return &DimensionHandler{dimensionService: ds}
}

// CreateDimension handles creation of a dimension.
func (h *DimensionHandler) CreateDimension(c *gin.Context) {
	var req services.CreateDimensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "CreateDimension: Failed to bind JSON", err)
		return
	}

	dimension, err := h.dimensionService.CreateDimension(req)
	if err != nil {
		respondServiceError(c, "CreateDimension: Error from dimensionService.CreateDimension", err)
		return
	}
	c.JSON(http.StatusCreated, dimension)
}

// GetDimensionByID returns one dimension.
func (h *DimensionHandler) GetDimensionByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	dimension, err := h.dimensionService.GetDimensionByID(id)
	if err != nil {
		respondServiceError(c, "GetDimensionByID: Error from dimensionService.GetDimensionByID", err)
		return
	}
	c.JSON(http.StatusOK, dimension)
}

// GetDimensions lists dimensions.
func (h *DimensionHandler) GetDimensions(c *gin.Context) {
	page, pageSize := parsePagination(c)
	dimensions, total, err := h.dimensionService.GetDimensions(page, pageSize)
	if err != nil {
		respondServiceError(c, "GetDimensions: Error from dimensionService.GetDimensions", err)
		return
	}
	c.JSON(http.StatusOK, paginatedResponse(dimensions, total, page, pageSize))
}

// GetDimensionsByUomGroup lists the dimensions using a unit group.
func (h *DimensionHandler) GetDimensionsByUomGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	dimensions, err := h.dimensionService.GetDimensionsByUomGroup(id)
	if err != nil {
		respondServiceError(c, "GetDimensionsByUomGroup: Error from dimensionService.GetDimensionsByUomGroup", err)
		return
	}
	c.JSON(http.StatusOK, dimensions)
}

// GetDimensionsByProduct lists the dimensions attached to a product.
func (h *DimensionHandler) GetDimensionsByProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	dimensions, err := h.dimensionService.GetDimensionsByProduct(id)
	if err != nil {
		respondServiceError(c, "GetDimensionsByProduct: Error from dimensionService.GetDimensionsByProduct", err)
		return
	}
	c.JSON(http.StatusOK, dimensions)
}

// UpdateDimension updates a dimension's fields.
func (h *DimensionHandler) UpdateDimension(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateDimensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "UpdateDimension: Failed to bind JSON", err)
		return
	}

	dimension, err := h.dimensionService.UpdateDimension(id, req)
	if err != nil {
		respondServiceError(c, "UpdateDimension: Error from dimensionService.UpdateDimension", err)
		return
	}
	c.JSON(http.StatusOK, dimension)
}

// DeleteDimension removes an unused dimension.
func (h *DimensionHandler) DeleteDimension(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.dimensionService.DeleteDimension(id); err != nil {
		respondServiceError(c, "DeleteDimension: Error from dimensionService.DeleteDimension", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dimension deleted successfully."})
}

// AttachToProduct links a dimension to a product.
func (h *DimensionHandler) AttachToProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	dimensionID, ok := parseIDParam(c, "dimension_id")
	if !ok {
		return
	}

	if err := h.dimensionService.AttachToProduct(productID, dimensionID); err != nil {
		respondServiceError(c, "AttachToProduct: Error from dimensionService.AttachToProduct", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dimension attached to product."})
}

// DetachFromProduct unlinks a dimension from a product.
func (h *DimensionHandler) DetachFromProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	dimensionID, ok := parseIDParam(c, "dimension_id")
	if !ok {
		return
	}

	if err := h.dimensionService.DetachFromProduct(productID, dimensionID); err != nil {
		respondServiceError(c, "DetachFromProduct: Error from dimensionService.DetachFromProduct", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dimension detached from product."})
}
