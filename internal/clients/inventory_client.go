package clients

import (
	"context"
	"fmt"
	"net/http"

	"admin-console/internal/models"
)

// InventoryClient handles the backend inventory endpoints
type InventoryClient struct {
	api *APIClient
}

func NewInventoryClient(api *APIClient) *InventoryClient {
	return &InventoryClient{api: api}
}

// InventoryRequest creates or edits an inventory record.
type InventoryRequest struct {
	ProductID         int64  `json:"product_id" validate:"required,gt=0"`
	QuantityInStock   int    `json:"quantity_in_stock" validate:"gte=0"`
	ReorderPoint      int    `json:"reorder_point" validate:"gte=0"`
	WarehouseLocation string `json:"warehouse_location,omitempty" validate:"max=120"`
}

func (c *InventoryClient) List(ctx context.Context) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	if err := c.api.GetJSON(ctx, "/inventory", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LowStock returns the records the backend flags as below reorder point.
func (c *InventoryClient) LowStock(ctx context.Context) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	if err := c.api.GetJSON(ctx, "/inventory/low-stock", &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *InventoryClient) Add(ctx context.Context, req InventoryRequest) error {
	return c.api.SendJSON(ctx, http.MethodPost, "/inventory/add", req, nil)
}

func (c *InventoryClient) Edit(ctx context.Context, id int64, req InventoryRequest) error {
	return c.api.SendJSON(ctx, http.MethodPut, fmt.Sprintf("/inventory/edit/%d", id), req, nil)
}

func (c *InventoryClient) Delete(ctx context.Context, id int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("/inventory/delete/%d", id))
}
