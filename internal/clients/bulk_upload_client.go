package clients

import (
	"context"
	"net/http"

	"admin-console/internal/models"
)

// BulkUploadClient handles CSV product imports
type BulkUploadClient struct {
	api *APIClient
}

func NewBulkUploadClient(api *APIClient) *BulkUploadClient {
	return &BulkUploadClient{api: api}
}

// UploadProducts posts a CSV file in the "file" field.
func (c *BulkUploadClient) UploadProducts(ctx context.Context, filename string, content []byte) (*models.BulkUploadResult, error) {
	form := NewMultipartBody().Attach(FilePart{
		Field:       "file",
		Filename:    filename,
		ContentType: "text/csv",
		Content:     content,
	})

	var result models.BulkUploadResult
	if err := c.api.SendMultipart(ctx, http.MethodPost, "/bulk-upload/products", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Template downloads the CSV template.
func (c *BulkUploadClient) Template(ctx context.Context) ([]byte, error) {
	return c.api.GetRaw(ctx, "/bulk-upload/download-template")
}
