package handlers

import (
	"net/http"

	"poultry_nexus_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// WarehouseHandler exposes warehouse management.
type WarehouseHandler struct {
	warehouseService services.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler.
func NewWarehouseHandler(ws services.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: ws}
}

// CreateWarehouse handles creation of a warehouse.
func (h *WarehouseHandler) CreateWarehouse(c *gin.Context) {
	var req services.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "CreateWarehouse: Failed to bind JSON", err)
		return
	}

	warehouse, err := h.warehouseService.CreateWarehouse(req)
	if err != nil {
		respondServiceError(c, "CreateWarehouse: Error from warehouseService.CreateWarehouse", err)
		return
	}
	c.JSON(http.StatusCreated, warehouse)
}

// GetWarehouseByID returns one warehouse.
func (h *WarehouseHandler) GetWarehouseByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	warehouse, err := h.warehouseService.GetWarehouseByID(id)
	if err != nil {
		respondServiceError(c, "GetWarehouseByID: Error from warehouseService.GetWarehouseByID", err)
		return
	}
	c.JSON(http.StatusOK, warehouse)
}

// GetWarehouses lists warehouses.
func (h *WarehouseHandler) GetWarehouses(c *gin.Context) {
	page, pageSize := parsePagination(c)
	warehouses, total, err := h.warehouseService.GetWarehouses(page, pageSize)
	if err != nil {
		respondServiceError(c, "GetWarehouses: Error from warehouseService.GetWarehouses", err)
		return
	}
	c.JSON(http.StatusOK, paginatedResponse(warehouses, total, page, pageSize))
}

// UpdateWarehouse updates a warehouse's fields.
func (h *WarehouseHandler) UpdateWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "UpdateWarehouse: Failed to bind JSON", err)
		return
	}

	warehouse, err := h.warehouseService.UpdateWarehouse(id, req)
	if err != nil {
		respondServiceError(c, "UpdateWarehouse: Error from warehouseService.UpdateWarehouse", err)
		return
	}
	c.JSON(http.StatusOK, warehouse)
}

// DeleteWarehouse removes a warehouse that holds no stock.
func (h *WarehouseHandler) DeleteWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.warehouseService.DeleteWarehouse(id); err != nil {
		respondServiceError(c, "DeleteWarehouse: Error from warehouseService.DeleteWarehouse", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Warehouse deleted successfully."})
}
