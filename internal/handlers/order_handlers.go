package handlers

import (
	"fmt"
	"net/http"

	"admin-console/internal/console"
	"admin-console/internal/documents"
	"admin-console/internal/events"
	"admin-console/internal/middleware"
	"admin-console/internal/models"

	"github.com/gin-gonic/gin"
)

// OrderStatusRequest picks an order status from the dropdown.
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Force  bool   `json:"force,omitempty"`
}

// ListOrders returns the order list
// @Summary List orders
// @Tags orders
// @Produce json
// @Param q query string false "Search term"
// @Param status query string false "Status filter"
// @Param source query string false "Source filter"
// @Param sort query string false "Sort key (id, date, total, status)"
// @Param desc query bool false "Descending order"
// @Success 200 {object} models.SuccessResponse
// @Router /orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	ws := h.workspace(c)
	console.FilterOrderStatus(ws.Orders, c.Query("status"))
	console.FilterOrderSource(ws.Orders, c.Query("source"))
	listResponse(c, ws.Orders)
}

// openOrder loads the order in the path into the details view. Writes and
// answers use the returned id, never the order the view shows later.
func (h *Handler) openOrder(c *gin.Context) (*console.Workspace, int64, bool) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return nil, 0, false
	}
	ws := h.workspace(c)
	if err := ws.OrderDetails.Open(c.Request.Context(), id); err != nil {
		c.Error(err)
		return nil, 0, false
	}
	return ws, id, true
}

// orderState answers the details of order id.
func orderState(c *gin.Context, details *console.OrderDetails, id int64) (console.OrderDetailsState, bool) {
	state, err := details.StateFor(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return state, false
	}
	return state, true
}

// GetOrder returns one order with its badge and available actions
// @Summary Order details
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	ws, id, ok := h.openOrder(c)
	if !ok {
		return
	}
	state, ok := orderState(c, ws.OrderDetails, id)
	if !ok {
		return
	}
	respond(c, http.StatusOK, state, "")
}

// OrderAction advances, cancels or completes an order
// @Summary Order status action
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Param action path string true "advance, cancel or complete"
// @Param confirm query bool false "Required for cancel"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /orders/{id}/{action} [post]
func (h *Handler) OrderAction(c *gin.Context) {
	action := c.Param("action")
	if action != "advance" && action != "cancel" && action != "complete" {
		c.Error(middleware.NewNotFoundError("Order action " + action))
		return
	}
	if action == "cancel" && !requireConfirm(c, fmt.Sprintf("Cancel order #%s?", c.Param("id"))) {
		return
	}

	ws, id, ok := h.openOrder(c)
	if !ok {
		return
	}
	details := ws.OrderDetails
	opened, ok := orderState(c, details, id)
	if !ok {
		return
	}

	var err error
	switch action {
	case "advance":
		err = details.Advance(c.Request.Context(), id)
	case "cancel":
		err = details.Cancel(confirmedContext(c), id)
	case "complete":
		err = details.MarkCompleted(c.Request.Context(), id)
	}
	if err != nil {
		c.Error(err)
		return
	}

	state, ok := orderState(c, details, id)
	if !ok {
		return
	}
	h.recordStatus(c, state.Order, statusOf(opened.Order))
	respond(c, http.StatusOK, state, "Order updated")
}

// SetOrderStatus writes a status picked from the dropdown
// @Summary Set order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body OrderStatusRequest true "Status"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /orders/{id}/status [put]
func (h *Handler) SetOrderStatus(c *gin.Context) {
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(&console.ValidationError{Fields: map[string]string{"status": "Status is required"}})
		return
	}
	ws, id, ok := h.openOrder(c)
	if !ok {
		return
	}
	opened, ok := orderState(c, ws.OrderDetails, id)
	if !ok {
		return
	}
	if err := ws.OrderDetails.SetStatus(c.Request.Context(), id, models.OrderStatus(req.Status), req.Force); err != nil {
		c.Error(err)
		return
	}
	state, ok := orderState(c, ws.OrderDetails, id)
	if !ok {
		return
	}
	h.recordStatus(c, state.Order, statusOf(opened.Order))
	respond(c, http.StatusOK, state, "Order updated")
}

func statusOf(order *models.Order) models.OrderStatus {
	if order == nil {
		return ""
	}
	return order.Status
}

func (h *Handler) recordStatus(c *gin.Context, order *models.Order, before models.OrderStatus) {
	if order == nil {
		return
	}
	h.record(c, "order", events.ActionStatusChanged, order.ID, map[string]string{
		"from": string(before),
		"to":   string(order.Status),
	})
}

// DeleteOrder deletes an order
// @Summary Delete order
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} models.SuccessResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /orders/{id} [delete]
func (h *Handler) DeleteOrder(c *gin.Context) {
	h.deleteFromList(c, "order", func(c *gin.Context, id int64) error {
		ws := h.workspace(c)
		return console.WithLoaded(c.Request.Context(), ws.Orders, func() error {
			return ws.Orders.Delete(confirmedContext(c), id)
		})
	})
}

// GetPackingSlip renders an order as a PDF packing slip
// @Summary Order packing slip
// @Tags orders
// @Produce application/pdf
// @Param id path int true "Order ID"
// @Success 200 {file} file
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id}/packing-slip.pdf [get]
func (h *Handler) GetPackingSlip(c *gin.Context) {
	ws, id, ok := h.openOrder(c)
	if !ok {
		return
	}
	pdf, err := ws.OrderDetails.PackingSlip(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="packing-slip-%s.pdf"`, c.Param("id")))
	c.Data(http.StatusOK, documents.PackingSlipContentType, pdf)
}
