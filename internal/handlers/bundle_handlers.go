package handlers

import (
	"net/http"

	"poultry_nexus_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// BundleHandler exposes product bundles and their evaluation.
type BundleHandler struct {
	bundleService services.BundleService
}

// NewBundleHandler creates a new BundleHandler.
func NewBundleHandler(bs services.BundleService) *BundleHandler {
	return &BundleHandler{bundleService: bs}
}

// CreateBundle handles creation of a bundle with its parameters and formulas.
func (h *BundleHandler) CreateBundle(c *gin.Context) {
	var req services.CreateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "CreateBundle: Failed to bind JSON", err)
		return
	}

	bundle, err := h.bundleService.CreateBundle(req)
	if err != nil {
		respondServiceError(c, "CreateBundle: Error from bundleService.CreateBundle", err)
		return
	}
	c.JSON(http.StatusCreated, bundle)
}

// GetBundleByID returns one bundle with parameters and products.
func (h *BundleHandler) GetBundleByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bundle, err := h.bundleService.GetBundleByID(id)
	if err != nil {
		respondServiceError(c, "GetBundleByID: Error from bundleService.GetBundleByID", err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// GetBundles lists bundles.
func (h *BundleHandler) GetBundles(c *gin.Context) {
	page, pageSize := parsePagination(c)
	bundles, total, err := h.bundleService.GetBundles(page, pageSize)
	if err != nil {
		respondServiceError(c, "GetBundles: Error from bundleService.GetBundles", err)
		return
	}
	c.JSON(http.StatusOK, paginatedResponse(bundles, total, page, pageSize))
}

// UpdateBundle updates a bundle's definition.
func (h *BundleHandler) UpdateBundle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "UpdateBundle: Failed to bind JSON", err)
		return
	}

	bundle, err := h.bundleService.UpdateBundle(id, req)
	if err != nil {
		respondServiceError(c, "UpdateBundle: Error from bundleService.UpdateBundle", err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// DeleteBundle removes a bundle.
func (h *BundleHandler) DeleteBundle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.bundleService.DeleteBundle(id); err != nil {
		respondServiceError(c, "DeleteBundle: Error from bundleService.DeleteBundle", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bundle deleted successfully."})
}

// EvaluateBundle instantiates a bundle with parameter values and returns the
// computed quantity of each product.
func (h *BundleHandler) EvaluateBundle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.EvaluateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, "EvaluateBundle: Failed to bind JSON", err)
		return
	}

	result, err := h.bundleService.Evaluate(id, req)
	if err != nil {
		respondServiceError(c, "EvaluateBundle: Error from bundleService.Evaluate", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
