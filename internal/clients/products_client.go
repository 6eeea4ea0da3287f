package clients

import (
	"context"
	"fmt"
	"net/http"

	"admin-console/internal/models"
)

// ProductsClient handles the backend product endpoints
type ProductsClient struct {
	api *APIClient
}

func NewProductsClient(api *APIClient) *ProductsClient {
	return &ProductsClient{api: api}
}

// List returns the whole catalog. Search and sort happen in the console.
func (c *ProductsClient) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.api.GetJSON(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *ProductsClient) Get(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := c.api.GetJSON(ctx, fmt.Sprintf("/products/%d", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Create posts a multipart product form.
func (c *ProductsClient) Create(ctx context.Context, form *MultipartBody) (*models.Product, error) {
	var product models.Product
	if err := c.api.SendMultipart(ctx, http.MethodPost, "/products/create", form, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update replaces a product with a multipart form.
func (c *ProductsClient) Update(ctx context.Context, id int64, form *MultipartBody) (*models.Product, error) {
	var product models.Product
	if err := c.api.SendMultipart(ctx, http.MethodPut, fmt.Sprintf("/products/edit/%d", id), form, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *ProductsClient) Delete(ctx context.Context, id int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("/products/delete/%d", id))
}
