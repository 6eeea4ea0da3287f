package handlers

import (
	"net/http"
	"strconv"

	"admin-console/internal/clients"
	"admin-console/internal/console"
	"admin-console/internal/events"
	"admin-console/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ListInventory returns one page of the inventory table
// @Summary List inventory
// @Description Inventory records joined with product names; low marks quantity below reorder point
// @Tags inventory
// @Produce json
// @Param page query int false "Page number"
// @Param q query string false "Search term"
// @Param low query bool false "Only records below reorder point"
// @Success 200 {object} models.SuccessResponse
// @Router /inventory [get]
func (h *Handler) ListInventory(c *gin.Context) {
	ws := h.workspace(c)
	low, _ := strconv.ParseBool(c.Query("low"))
	ws.Inventory.ShowLowOnly(low)
	listResponse(c, ws.Inventory.ListView)
}

// CreateInventory adds an inventory record
// @Summary Add inventory record
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body clients.InventoryRequest true "Inventory record"
// @Success 201 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /inventory [post]
func (h *Handler) CreateInventory(c *gin.Context) {
	var req clients.InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.NewBadRequestError("Invalid request body"))
		return
	}
	ws := h.workspace(c)
	if err := ws.Inventory.Add(c.Request.Context(), req); err != nil {
		c.Error(err)
		return
	}
	h.record(c, "inventory", events.ActionCreated, nil, map[string]string{
		"product_id": strconv.FormatInt(req.ProductID, 10),
	})
	respond(c, http.StatusCreated, ws.Inventory.Snapshot(), "Inventory record added")
}

// UpdateInventory edits an inventory record
// @Summary Update inventory record
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path int true "Inventory ID"
// @Param request body clients.InventoryRequest true "Inventory record"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /inventory/{id} [put]
func (h *Handler) UpdateInventory(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req clients.InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.NewBadRequestError("Invalid request body"))
		return
	}
	ws := h.workspace(c)
	err = console.WithLoaded(c.Request.Context(), ws.Inventory.ListView, func() error {
		return ws.Inventory.Edit(c.Request.Context(), id, req)
	})
	if err != nil {
		c.Error(err)
		return
	}
	h.record(c, "inventory", events.ActionUpdated, id, nil)
	respond(c, http.StatusOK, ws.Inventory.Snapshot(), "Inventory record updated")
}

// DeleteInventory deletes an inventory record
// @Summary Delete inventory record
// @Tags inventory
// @Produce json
// @Param id path int true "Inventory ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} models.SuccessResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /inventory/{id} [delete]
func (h *Handler) DeleteInventory(c *gin.Context) {
	h.deleteFromList(c, "inventory", func(c *gin.Context, id int64) error {
		ws := h.workspace(c)
		return console.WithLoaded(c.Request.Context(), ws.Inventory.ListView, func() error {
			return ws.Inventory.Delete(confirmedContext(c), id)
		})
	})
}
