package handlers

import (
	"net/http"

	"poultry_nexus_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// UomHandler exposes the unit-of-measure registry and the quantity converter.
type UomHandler struct {
	uomService services.UomService
	converter  services.QuantityConverter
}

// NewUomHandler creates a new UomHandler.
func NewUomHandler(us services.UomService, converter services.QuantityConverter) *UomHandler {
	return &UomHandler{uomService: us, converter: converter}
}

// --- UoM Groups ---

// CreateGroup handles creation of a unit group.
func (h *UomHandler) CreateGroup(c *gin.Context) {
	var req services.CreateUomGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "CreateGroup: Failed to bind JSON", err)
		return
	}

	group, err := h.uomService.CreateGroup(req)
	if err != nil {
		respondServiceError(c, "CreateGroup: Error from uomService.CreateGroup", err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// GetGroupByID returns one unit group with its units.
func (h *UomHandler) GetGroupByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	group, err := h.uomService.GetGroupByID(id)
	if err != nil {
		respondServiceError(c, "GetGroupByID: Error from uomService.GetGroupByID", err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// GetGroups lists unit groups.
func (h *UomHandler) GetGroups(c *gin.Context) {
	page, pageSize := parsePagination(c)
	groups, total, err := h.uomService.GetGroups(page, pageSize)
	if err != nil {
		respondServiceError(c, "GetGroups: Error from uomService.GetGroups", err)
		return
	}
	c.JSON(http.StatusOK, paginatedResponse(groups, total, page, pageSize))
}

// UpdateGroup renames a unit group.
func (h *UomHandler) UpdateGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateUomGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "UpdateGroup: Failed to bind JSON", err)
		return
	}

	group, err := h.uomService.UpdateGroup(id, req)
	if err != nil {
		respondServiceError(c, "UpdateGroup: Error from uomService.UpdateGroup", err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// DeleteGroup removes an empty unit group.
func (h *UomHandler) DeleteGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.uomService.DeleteGroup(id); err != nil {
		respondServiceError(c, "DeleteGroup: Error from uomService.DeleteGroup", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unit group deleted successfully."})
}

// GetUnitsInGroup lists the units of one group.
func (h *UomHandler) GetUnitsInGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	units, err := h.uomService.UnitsInGroup(id)
	if err != nil {
		respondServiceError(c, "GetUnitsInGroup: Error from uomService.UnitsInGroup", err)
		return
	}
	c.JSON(http.StatusOK, units)
}

// --- UoM Units ---

// CreateUnit handles creation of a unit inside a group.
func (h *UomHandler) CreateUnit(c *gin.Context) {
	var req services.CreateUomUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "CreateUnit: Failed to bind JSON", err)
		return
	}

	unit, err := h.uomService.CreateUnit(req)
	if err != nil {
		respondServiceError(c, "CreateUnit: Error from uomService.CreateUnit", err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

// GetUnitByID returns one unit.
func (h *UomHandler) GetUnitByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	unit, err := h.uomService.ResolveUnit(id)
	if err != nil {
		respondServiceError(c, "GetUnitByID: Error from uomService.ResolveUnit", err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

// UpdateUnit updates a unit's fields.
func (h *UomHandler) UpdateUnit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateUomUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "UpdateUnit: Failed to bind JSON", err)
		return
	}

	unit, err := h.uomService.UpdateUnit(id, req)
	if err != nil {
		respondServiceError(c, "UpdateUnit: Error from uomService.UpdateUnit", err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

// DeleteUnit removes an unreferenced unit.
func (h *UomHandler) DeleteUnit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.uomService.DeleteUnit(id); err != nil {
		respondServiceError(c, "DeleteUnit: Error from uomService.DeleteUnit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unit deleted successfully."})
}

// --- Conversion ---

type convertRequest struct {
	Value     decimal.Decimal `json:"value" binding:"required"`
	FromUomID int64           `json:"from_uom_id" binding:"required"`
	ToUomID   int64           `json:"to_uom_id" binding:"required"`
}

// ConvertQuantity converts a value between two units of the same group.
func (h *UomHandler) ConvertQuantity(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "ConvertQuantity: Failed to bind JSON", err)
		return
	}

	result, err := h.converter.Convert(req.Value, req.FromUomID, req.ToUomID)
	if err != nil {
		respondServiceError(c, "ConvertQuantity: Error from converter.Convert", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"value":       req.Value,
		"from_uom_id": req.FromUomID,
		"to_uom_id":   req.ToUomID,
		"result":      result,
	})
}
