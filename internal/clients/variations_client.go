package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"admin-console/internal/models"
)

// VariationsClient handles the backend variation endpoints
type VariationsClient struct {
	api *APIClient
}

func NewVariationsClient(api *APIClient) *VariationsClient {
	return &VariationsClient{api: api}
}

// CreateVariationRequest creates one SKU with its attribute rows.
type CreateVariationRequest struct {
	ProductID     int64              `json:"product_id"`
	SKU           string             `json:"sku"`
	Attributes    []models.Attribute `json:"attributes"`
	PriceModifier float64            `json:"price_modifier"`
}

// EditVariationRequest rewrites one attribute row.
type EditVariationRequest struct {
	AttributeType  string  `json:"attribute_type"`
	AttributeValue string  `json:"attribute_value"`
	PriceModifier  float64 `json:"price_modifier"`
}

// ListByProduct returns the attribute rows of a product.
func (c *VariationsClient) ListByProduct(ctx context.Context, productID int64) ([]models.Variation, error) {
	var rows []models.Variation
	if err := c.api.GetJSON(ctx, fmt.Sprintf("/variations/%d", productID), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *VariationsClient) Create(ctx context.Context, req CreateVariationRequest) error {
	return c.api.SendJSON(ctx, http.MethodPost, "/variations/create", req, nil)
}

func (c *VariationsClient) Edit(ctx context.Context, rowID int64, req EditVariationRequest) error {
	return c.api.SendJSON(ctx, http.MethodPut, fmt.Sprintf("/variations/edit/%d", rowID), req, nil)
}

// DeleteSKU removes every attribute row of sku.
func (c *VariationsClient) DeleteSKU(ctx context.Context, sku string) error {
	return c.api.Delete(ctx, "/variations/delete/"+url.PathEscape(sku))
}
