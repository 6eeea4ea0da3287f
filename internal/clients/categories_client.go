package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"admin-console/internal/models"
)

// CategoriesClient handles the backend category hierarchy endpoints
type CategoriesClient struct {
	api *APIClient
}

func NewCategoriesClient(api *APIClient) *CategoriesClient {
	return &CategoriesClient{api: api}
}

type categoryRequest struct {
	CategoryName string `json:"category_name"`
}

type subItemRequest struct {
	SubcategoryName string `json:"subcategory_name"`
	ParentID        int64  `json:"parent_id,omitempty"`
}

// List returns the flat list of top-level categories.
func (c *CategoriesClient) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.api.GetJSON(ctx, "/category", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Nested returns the full three-level hierarchy in one call.
func (c *CategoriesClient) Nested(ctx context.Context) ([]*models.CategoryNode, error) {
	var raw json.RawMessage
	if err := c.api.GetJSON(ctx, "/category/all-nested", &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return []*models.CategoryNode{}, nil
	}
	return models.ParseCategoryTree(raw)
}

func (c *CategoriesClient) AddCategory(ctx context.Context, name string) error {
	return c.api.SendJSON(ctx, http.MethodPost, "/category/add", categoryRequest{CategoryName: name}, nil)
}

func (c *CategoriesClient) EditCategory(ctx context.Context, id int64, name string) error {
	return c.api.SendJSON(ctx, http.MethodPut, fmt.Sprintf("/category/edit/%d", id), categoryRequest{CategoryName: name}, nil)
}

func (c *CategoriesClient) DeleteCategory(ctx context.Context, id int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("/category/delete/%d", id))
}

// AddSubItem creates a subcategory or product group under parentID. The
// backend serves both levels from one endpoint.
func (c *CategoriesClient) AddSubItem(ctx context.Context, parentID int64, name string) error {
	return c.api.SendJSON(ctx, http.MethodPost, "/category/sub/add", subItemRequest{SubcategoryName: name, ParentID: parentID}, nil)
}

func (c *CategoriesClient) EditSubItem(ctx context.Context, id int64, name string) error {
	return c.api.SendJSON(ctx, http.MethodPut, fmt.Sprintf("/category/sub/edit/%d", id), subItemRequest{SubcategoryName: name}, nil)
}

func (c *CategoriesClient) DeleteSubItem(ctx context.Context, id int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("/category/sub/delete/%d", id))
}
