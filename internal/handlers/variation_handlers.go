package handlers

import (
	"net/http"

	"admin-console/internal/console"
	"admin-console/internal/events"
	"admin-console/internal/middleware"
	"admin-console/internal/models"

	"github.com/gin-gonic/gin"
)

// PriceModifierRequest sets the price modifier of one SKU.
type PriceModifierRequest struct {
	PriceModifier *float64 `json:"price_modifier"`
}

// loadVariations points the manager at the product in the path.
func (h *Handler) loadVariations(c *gin.Context) (*console.Workspace, int64, error) {
	productID, err := pathID(c, "id")
	if err != nil {
		return nil, 0, err
	}
	ws := h.workspace(c)
	if state := ws.Variations.State(); state.ProductID != productID || c.Query("refresh") == "true" {
		if err := ws.Variations.Load(c.Request.Context(), productID); err != nil {
			return nil, 0, err
		}
	}
	return ws, productID, nil
}

// ListVariations returns the SKUs of a product
// @Summary List product variations
// @Description Attribute rows grouped by SKU
// @Tags variations
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.SuccessResponse
// @Router /products/{id}/variations [get]
func (h *Handler) ListVariations(c *gin.Context) {
	ws, _, err := h.loadVariations(c)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, ws.Variations.State(), "")
}

// CreateVariation adds a SKU to a product
// @Summary Create variation
// @Tags variations
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body console.VariationForm true "SKU, attributes and price modifier"
// @Success 201 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /products/{id}/variations [post]
func (h *Handler) CreateVariation(c *gin.Context) {
	var form console.VariationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(middleware.NewBadRequestError("Invalid request body"))
		return
	}
	ws, productID, err := h.loadVariations(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := ws.Variations.Create(c.Request.Context(), productID, form); err != nil {
		c.Error(err)
		return
	}
	h.record(c, "variation", events.ActionCreated, form.SKU, map[string]string{"product_id": c.Param("id")})
	respond(c, http.StatusCreated, ws.Variations.State(), "Variation created")
}

// UpdateVariationRow edits one attribute row
// @Summary Update variation attribute
// @Tags variations
// @Accept json
// @Produce json
// @Param rowId path int true "Attribute row ID"
// @Param request body models.Attribute true "Attribute"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /variations/{rowId} [put]
func (h *Handler) UpdateVariationRow(c *gin.Context) {
	rowID, err := pathID(c, "rowId")
	if err != nil {
		c.Error(err)
		return
	}
	var attr models.Attribute
	if err := c.ShouldBindJSON(&attr); err != nil {
		c.Error(middleware.NewBadRequestError("Invalid request body"))
		return
	}
	ws := h.workspace(c)
	if err := ws.Variations.UpdateRow(c.Request.Context(), rowID, attr); err != nil {
		c.Error(err)
		return
	}
	h.record(c, "variation", events.ActionUpdated, rowID, nil)
	respond(c, http.StatusOK, ws.Variations.State(), "Variation updated")
}

// SetPriceModifier writes one price modifier to every row of a SKU
// @Summary Set SKU price modifier
// @Tags variations
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param sku path string true "SKU"
// @Param request body PriceModifierRequest true "Price modifier"
// @Success 200 {object} models.SuccessResponse
// @Router /products/{id}/variations/{sku}/price-modifier [put]
func (h *Handler) SetPriceModifier(c *gin.Context) {
	var req PriceModifierRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PriceModifier == nil {
		c.Error(&console.ValidationError{Fields: map[string]string{"price_modifier": "Price modifier is required"}})
		return
	}
	ws, productID, err := h.loadVariations(c)
	if err != nil {
		c.Error(err)
		return
	}
	sku := c.Param("sku")
	if err := ws.Variations.SetPriceModifier(c.Request.Context(), productID, sku, *req.PriceModifier); err != nil {
		c.Error(err)
		return
	}
	h.record(c, "variation", events.ActionUpdated, sku, map[string]string{
		"price_modifier": models.FormatDecimal(*req.PriceModifier),
	})
	respond(c, http.StatusOK, ws.Variations.State(), "Price modifier updated")
}

// DeleteVariation deletes every row of a SKU
// @Summary Delete variation
// @Tags variations
// @Produce json
// @Param id path int true "Product ID"
// @Param sku path string true "SKU"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} models.SuccessResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /products/{id}/variations/{sku} [delete]
func (h *Handler) DeleteVariation(c *gin.Context) {
	sku := c.Param("sku")
	if !requireConfirm(c, "Are you sure you want to delete variation "+sku+"?") {
		return
	}
	ws, productID, err := h.loadVariations(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := ws.Variations.DeleteSKU(confirmedContext(c), productID, sku); err != nil {
		c.Error(err)
		return
	}
	h.record(c, "variation", events.ActionDeleted, sku, nil)
	respond(c, http.StatusOK, ws.Variations.State(), "Variation deleted")
}
