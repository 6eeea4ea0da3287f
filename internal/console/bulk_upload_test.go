package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"admin-console/internal/documents"
	"admin-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importCSV = "name,price,stock_quantity,category_id\nMug,4.5,10,1\n"

func testWorkspace(products *fakeProducts, bulk *fakeBulkUpload) *Workspace {
	return NewWorkspace(WorkspaceOptions{
		Backend: &Backend{
			Products:   products,
			Categories: newFakeCategories(),
			Variations: &fakeVariations{},
			Orders:     new(MockOrdersAPI),
			Inventory:  &fakeInventory{},
			Banners:    &fakeBanners{},
			BulkUpload: bulk,
		},
	})
}

func TestBulkUpload_PartialImportRefreshesProducts(t *testing.T) {
	products := newFakeProducts()
	bulk := &fakeBulkUpload{
		result:   models.BulkUploadResult{TotalProcessed: 10, Successful: 8, Failed: 2},
		onUpload: func() { products.addProducts(8) },
	}
	ws := testWorkspace(products, bulk)
	ws.BulkUpload.AutoCloseDelay = 20 * time.Millisecond

	require.NoError(t, ws.Products.Load(context.Background()))
	assert.Equal(t, 0, ws.Products.Snapshot().Page.Total)

	ws.BulkUpload.Open()
	result, err := ws.BulkUpload.Submit(context.Background(), "catalog.csv", strings.NewReader(importCSV))
	require.NoError(t, err)
	assert.Equal(t, 8, result.Successful)

	assert.Equal(t, 8, ws.Products.Snapshot().Page.Total, "product list re-fetched")

	state := ws.BulkUpload.State()
	require.NotNil(t, state.Status)
	assert.Equal(t, models.BannerWarning, state.Status.Kind)
	assert.Equal(t, "Imported 8 of 10 products; 2 rows failed", state.Status.Message)

	assert.Eventually(t, func() bool { return !ws.BulkUpload.IsOpen() }, time.Second, 5*time.Millisecond)
}

func TestBulkUpload_NothingImportedStaysOpen(t *testing.T) {
	products := newFakeProducts()
	bulk := &fakeBulkUpload{result: models.BulkUploadResult{TotalProcessed: 3, Failed: 3}}
	ws := testWorkspace(products, bulk)
	ws.BulkUpload.AutoCloseDelay = time.Millisecond

	ws.BulkUpload.Open()
	_, err := ws.BulkUpload.Submit(context.Background(), "catalog.csv", strings.NewReader(importCSV))
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	assert.True(t, ws.BulkUpload.IsOpen())
	assert.Equal(t, models.BannerDanger, ws.BulkUpload.State().Status.Kind)
	assert.Equal(t, 0, products.count("List"), "no refresh without imported rows")
}

func TestBulkUpload_RejectsBeforeUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
	}{
		{"wrong extension", "catalog.txt", []byte(importCSV)},
		{"empty file", "catalog.csv", nil},
		{"binary csv", "catalog.csv", pngBytes},
		{"broken workbook", "catalog.xlsx", []byte("not a zip")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bulk := &fakeBulkUpload{}
			panel := NewBulkUploadPanel(bulk, nil)

			_, err := panel.Submit(context.Background(), tt.filename, bytes.NewReader(tt.content))
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
			assert.Empty(t, bulk.all())
		})
	}
}

func TestBulkUpload_ConvertsWorkbook(t *testing.T) {
	book, err := documents.CSVToXLSX([]byte(importCSV), ImportTemplateColumns)
	require.NoError(t, err)

	bulk := &fakeBulkUpload{result: models.BulkUploadResult{TotalProcessed: 1, Successful: 1}}
	panel := NewBulkUploadPanel(bulk, nil)
	panel.AutoCloseDelay = 0

	_, err = panel.Submit(context.Background(), "catalog.xlsx", bytes.NewReader(book))
	require.NoError(t, err)

	assert.Equal(t, "catalog.csv", bulk.filename)
	assert.Equal(t, importCSV, string(bulk.content))
	assert.False(t, panel.IsOpen())
}

func TestBulkUpload_TemplateXLSX(t *testing.T) {
	bulk := &fakeBulkUpload{template: []byte("name,price,stock_quantity,category_id,description\n")}
	panel := NewBulkUploadPanel(bulk, nil)

	book, err := panel.TemplateXLSX(context.Background())
	require.NoError(t, err)

	back, err := documents.XLSXToCSV(bytes.NewReader(book))
	require.NoError(t, err)
	assert.Equal(t, "name,price,stock_quantity,category_id,description\n", string(back))
}
