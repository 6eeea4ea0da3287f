package console

import (
	"context"

	"admin-console/internal/clients"
	"admin-console/internal/models"
)

// ProductsAPI is the product surface of the backend.
type ProductsAPI interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, form *clients.MultipartBody) (*models.Product, error)
	Update(ctx context.Context, id int64, form *clients.MultipartBody) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}

// CategoriesAPI is the category surface of the backend.
type CategoriesAPI interface {
	List(ctx context.Context) ([]models.Category, error)
	Nested(ctx context.Context) ([]*models.CategoryNode, error)
	AddCategory(ctx context.Context, name string) error
	EditCategory(ctx context.Context, id int64, name string) error
	DeleteCategory(ctx context.Context, id int64) error
	AddSubItem(ctx context.Context, parentID int64, name string) error
	EditSubItem(ctx context.Context, id int64, name string) error
	DeleteSubItem(ctx context.Context, id int64) error
}

// VariationsAPI is the variation surface of the backend.
type VariationsAPI interface {
	ListByProduct(ctx context.Context, productID int64) ([]models.Variation, error)
	Create(ctx context.Context, req clients.CreateVariationRequest) error
	Edit(ctx context.Context, rowID int64, req clients.EditVariationRequest) error
	DeleteSKU(ctx context.Context, sku string) error
}

// OrdersAPI is the order surface of the backend.
type OrdersAPI interface {
	List(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, id int64) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error
	Delete(ctx context.Context, id int64) error
}

// InventoryAPI is the inventory surface of the backend.
type InventoryAPI interface {
	List(ctx context.Context) ([]models.InventoryRecord, error)
	LowStock(ctx context.Context) ([]models.InventoryRecord, error)
	Add(ctx context.Context, req clients.InventoryRequest) error
	Edit(ctx context.Context, id int64, req clients.InventoryRequest) error
	Delete(ctx context.Context, id int64) error
}

// BannersAPI is the banner surface of the backend.
type BannersAPI interface {
	List(ctx context.Context) ([]models.Banner, error)
	Upload(ctx context.Context, form *clients.MultipartBody) error
	Update(ctx context.Context, id int64, form *clients.MultipartBody) error
	Delete(ctx context.Context, id int64) error
}

// BulkUploadAPI is the bulk import surface of the backend.
type BulkUploadAPI interface {
	UploadProducts(ctx context.Context, filename string, content []byte) (*models.BulkUploadResult, error)
	Template(ctx context.Context) ([]byte, error)
}

// Backend bundles every backend surface the console uses.
type Backend struct {
	Products   ProductsAPI
	Categories CategoriesAPI
	Variations VariationsAPI
	Orders     OrdersAPI
	Inventory  InventoryAPI
	Banners    BannersAPI
	BulkUpload BulkUploadAPI
}

// NewBackend builds the backend surfaces on one API client.
func NewBackend(api *clients.APIClient) *Backend {
	return &Backend{
		Products:   clients.NewProductsClient(api),
		Categories: clients.NewCategoriesClient(api),
		Variations: clients.NewVariationsClient(api),
		Orders:     clients.NewOrdersClient(api),
		Inventory:  clients.NewInventoryClient(api),
		Banners:    clients.NewBannersClient(api),
		BulkUpload: clients.NewBulkUploadClient(api),
	}
}
