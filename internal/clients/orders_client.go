package clients

import (
	"context"
	"fmt"
	"net/http"

	"admin-console/internal/models"
)

// OrdersClient handles the backend order endpoints
type OrdersClient struct {
	api *APIClient
}

func NewOrdersClient(api *APIClient) *OrdersClient {
	return &OrdersClient{api: api}
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

func (c *OrdersClient) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.api.GetJSON(ctx, "/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *OrdersClient) Get(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := c.api.GetJSON(ctx, fmt.Sprintf("/orders/%d", id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *OrdersClient) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	return c.api.SendJSON(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", id), statusRequest{Status: status}, nil)
}

func (c *OrdersClient) Delete(ctx context.Context, id int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("/orders/delete/%d", id))
}
