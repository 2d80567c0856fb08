package handlers

import (
	"net/http"
	"strconv"

	"poultry_nexus_backend/internal/services"
	"poultry_nexus_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StockHandler exposes stock entries, movements and warehouse operations.
type StockHandler struct {
	stockService services.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(ss services.StockService) *StockHandler {
	return &StockHandler{stockService: ss}
}

// CreateEntry registers incoming stock.
func (h *StockHandler) CreateEntry(c *gin.Context) {
	var req services.CreateStockEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "CreateEntry: Failed to bind JSON", err)
		return
	}

	item, err := h.stockService.CreateEntry(req, currentUserID(c))
	if err != nil {
		respondServiceError(c, "CreateEntry: Error from stockService.CreateEntry", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetItemByID returns one stock item with its dimensions.
func (h *StockHandler) GetItemByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.stockService.GetItemByID(id)
	if err != nil {
		respondServiceError(c, "GetItemByID: Error from stockService.GetItemByID", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetItems lists stock items, optionally filtered by product and warehouse.
func (h *StockHandler) GetItems(c *gin.Context) {
	page, pageSize := parsePagination(c)
	productID, ok := parseOptionalIDQuery(c, "product_id")
	if !ok {
		return
	}
	warehouseID, ok := parseOptionalIDQuery(c, "warehouse_id")
	if !ok {
		return
	}

	items, total, err := h.stockService.GetItems(productID, warehouseID, page, pageSize)
	if err != nil {
		respondServiceError(c, "GetItems: Error from stockService.GetItems", err)
		return
	}
	c.JSON(http.StatusOK, paginatedResponse(items, total, page, pageSize))
}

// IssueStock removes stock from an item.
func (h *StockHandler) IssueStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.IssueStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "IssueStock: Failed to bind JSON", err)
		return
	}

	item, err := h.stockService.Issue(id, req, currentUserID(c))
	if err != nil {
		respondServiceError(c, "IssueStock: Error from stockService.Issue", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// TransferStock moves stock from an item's warehouse to another warehouse.
func (h *StockHandler) TransferStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "TransferStock: Failed to bind JSON", err)
		return
	}

	item, err := h.stockService.Transfer(id, req, currentUserID(c))
	if err != nil {
		respondServiceError(c, "TransferStock: Error from stockService.Transfer", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// AdjustStock applies a signed correction to an item.
func (h *StockHandler) AdjustStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "AdjustStock: Failed to bind JSON", err)
		return
	}

	item, err := h.stockService.Adjust(id, req, currentUserID(c))
	if err != nil {
		respondServiceError(c, "AdjustStock: Error from stockService.Adjust", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// StockCount reconciles an item against a physical count.
func (h *StockHandler) StockCount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.StockCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "StockCount: Failed to bind JSON", err)
		return
	}

	item, err := h.stockService.StockCount(id, req, currentUserID(c))
	if err != nil {
		respondServiceError(c, "StockCount: Error from stockService.StockCount", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetMovements lists stock movements, optionally filtered by product,
// warehouse and movement type.
func (h *StockHandler) GetMovements(c *gin.Context) {
	page, pageSize := parsePagination(c)
	productID, ok := parseOptionalIDQuery(c, "product_id")
	if !ok {
		return
	}
	warehouseID, ok := parseOptionalIDQuery(c, "warehouse_id")
	if !ok {
		return
	}
	var movementType *string
	if raw := c.Query("movement_type"); raw != "" {
		movementType = &raw
	}

	movements, total, err := h.stockService.GetMovements(productID, warehouseID, movementType, page, pageSize)
	if err != nil {
		respondServiceError(c, "GetMovements: Error from stockService.GetMovements", err)
		return
	}
	c.JSON(http.StatusOK, paginatedResponse(movements, total, page, pageSize))
}

// GetStockLevel returns the current level for one product at one warehouse,
// computed from the movement ledger.
func (h *StockHandler) GetStockLevel(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Query("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid product_id parameter.", c.Query("product_id")))
		return
	}
	warehouseID, err := strconv.ParseInt(c.Query("warehouse_id"), 10, 64)
	if err != nil || warehouseID <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid warehouse_id parameter.", c.Query("warehouse_id")))
		return
	}

	level, err := h.stockService.GetStockLevel(productID, warehouseID)
	if err != nil {
		respondServiceError(c, "GetStockLevel: Error from stockService.GetStockLevel", err)
		return
	}
	c.JSON(http.StatusOK, level)
}
