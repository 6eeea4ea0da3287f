package clients

import (
	"context"
	"fmt"
	"net/http"

	"admin-console/internal/models"
)

// BannersClient handles the backend banner endpoints
type BannersClient struct {
	api *APIClient
}

func NewBannersClient(api *APIClient) *BannersClient {
	return &BannersClient{api: api}
}

func (c *BannersClient) List(ctx context.Context) ([]models.Banner, error) {
	var banners []models.Banner
	if err := c.api.GetJSON(ctx, "/banners", &banners); err != nil {
		return nil, err
	}
	return banners, nil
}

// Upload posts a new banner with its image.
func (c *BannersClient) Upload(ctx context.Context, form *MultipartBody) error {
	return c.api.SendMultipart(ctx, http.MethodPost, "/banners/upload", form, nil)
}

// Update edits a banner; the image part is optional.
func (c *BannersClient) Update(ctx context.Context, id int64, form *MultipartBody) error {
	return c.api.SendMultipart(ctx, http.MethodPut, fmt.Sprintf("/banners/update/%d", id), form, nil)
}

func (c *BannersClient) Delete(ctx context.Context, id int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("/banners/delete/%d", id))
}
