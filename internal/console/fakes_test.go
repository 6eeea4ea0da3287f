package console

import (
	"context"
	"fmt"
	"sync"

	"admin-console/internal/clients"
	"admin-console/internal/models"

	"github.com/stretchr/testify/mock"
)

// callLog records backend calls in order.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *callLog) count(prefix string) int {
	n := 0
	for _, c := range l.all() {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func badRequest(msg string) error {
	return &clients.APIError{StatusCode: 400, Message: msg, Parsed: true}
}

// fakeCategories serves an in-memory hierarchy.
type fakeCategories struct {
	callLog
	mu     sync.Mutex
	roots  []*models.CategoryNode
	nextID int64
	fail   map[string]error
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{
		nextID: 1000,
		fail:   make(map[string]error),
		roots: []*models.CategoryNode{
			{ID: 1, Name: "Electronics", Level: models.LevelCategory, Children: []*models.CategoryNode{
				{ID: 10, Name: "Phones", Level: models.LevelSubcategory, Children: []*models.CategoryNode{
					{ID: 100, Name: "Smartphones", Level: models.LevelProductGroup},
					{ID: 101, Name: "Feature phones", Level: models.LevelProductGroup},
				}},
				{ID: 11, Name: "Laptops", Level: models.LevelSubcategory},
			}},
			{ID: 2, Name: "Books", Level: models.LevelCategory},
		},
	}
}

func cloneNodes(nodes []*models.CategoryNode) []*models.CategoryNode {
	out := make([]*models.CategoryNode, 0, len(nodes))
	for _, n := range nodes {
		c := *n
		c.Children = cloneNodes(n.Children)
		out = append(out, &c)
	}
	return out
}

func (f *fakeCategories) List(ctx context.Context) ([]models.Category, error) {
	f.add("List")
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Category
	for _, n := range f.roots {
		out = append(out, models.Category{ID: n.ID, Name: n.Name})
	}
	return out, f.fail["List"]
}

func (f *fakeCategories) Nested(ctx context.Context) ([]*models.CategoryNode, error) {
	f.add("Nested")
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["Nested"]; err != nil {
		return nil, err
	}
	return cloneNodes(f.roots), nil
}

func (f *fakeCategories) AddCategory(ctx context.Context, name string) error {
	f.add("AddCategory %s", name)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["AddCategory"]; err != nil {
		return err
	}
	f.nextID++
	f.roots = append(f.roots, &models.CategoryNode{ID: f.nextID, Name: name, Level: models.LevelCategory})
	return nil
}

func (f *fakeCategories) EditCategory(ctx context.Context, id int64, name string) error {
	f.add("EditCategory %d %s", id, name)
	f.mu.Lock()
	defer f.mu.Unlock()
	if n := models.FindCategoryNode(f.roots, models.NodeRef{Level: models.LevelCategory, ID: id}); n != nil {
		n.Name = name
	}
	return f.fail["EditCategory"]
}

func (f *fakeCategories) DeleteCategory(ctx context.Context, id int64) error {
	f.add("DeleteCategory %d", id)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roots = removeNode(f.roots, id)
	return f.fail["DeleteCategory"]
}

func (f *fakeCategories) AddSubItem(ctx context.Context, parentID int64, name string) error {
	f.add("AddSubItem %d %s", parentID, name)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["AddSubItem"]; err != nil {
		return err
	}
	parent := models.FindCategoryNode(f.roots, models.NodeRef{Level: models.LevelCategory, ID: parentID})
	if parent == nil {
		parent = models.FindCategoryNode(f.roots, models.NodeRef{Level: models.LevelSubcategory, ID: parentID})
	}
	if parent == nil {
		return badRequest("parent not found")
	}
	f.nextID++
	parent.Children = append(parent.Children, &models.CategoryNode{ID: f.nextID, Name: name, Level: parent.Level + 1})
	return nil
}

func (f *fakeCategories) EditSubItem(ctx context.Context, id int64, name string) error {
	f.add("EditSubItem %d %s", id, name)
	return f.fail["EditSubItem"]
}

func (f *fakeCategories) DeleteSubItem(ctx context.Context, id int64) error {
	f.add("DeleteSubItem %d", id)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, root := range f.roots {
		root.Children = removeNode(root.Children, id)
		for _, sub := range root.Children {
			sub.Children = removeNode(sub.Children, id)
		}
	}
	return f.fail["DeleteSubItem"]
}

func removeNode(nodes []*models.CategoryNode, id int64) []*models.CategoryNode {
	out := nodes[:0]
	for _, n := range nodes {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}

// fakeProducts is an in-memory catalog.
type fakeProducts struct {
	callLog
	mu       sync.Mutex
	products []models.Product
	forms    []*clients.MultipartBody
	fail     map[string]error
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	return &fakeProducts{products: products, fail: make(map[string]error)}
}

func (f *fakeProducts) List(ctx context.Context) ([]models.Product, error) {
	f.add("List")
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["List"]; err != nil {
		return nil, err
	}
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeProducts) Get(ctx context.Context, id int64) (*models.Product, error) {
	f.add("Get %d", id)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, &clients.APIError{StatusCode: 404, Message: "Product not found", Parsed: true}
}

func (f *fakeProducts) Create(ctx context.Context, form *clients.MultipartBody) (*models.Product, error) {
	f.add("Create")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forms = append(f.forms, form)
	if err := f.fail["Create"]; err != nil {
		return nil, err
	}
	p := models.Product{ID: int64(len(f.products) + 1)}
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeProducts) Update(ctx context.Context, id int64, form *clients.MultipartBody) (*models.Product, error) {
	f.add("Update %d", id)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forms = append(f.forms, form)
	if err := f.fail["Update"]; err != nil {
		return nil, err
	}
	return &models.Product{ID: id}, nil
}

func (f *fakeProducts) Delete(ctx context.Context, id int64) error {
	f.add("Delete %d", id)
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []models.Product
	for _, p := range f.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.products = kept
	return f.fail["Delete"]
}

func (f *fakeProducts) addProducts(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i < n; i++ {
		id := int64(len(f.products) + 1)
		f.products = append(f.products, models.Product{ID: id, Name: fmt.Sprintf("Imported %d", id), Price: 1})
	}
}

// fakeBulkUpload answers every upload with result and runs onUpload first.
type fakeBulkUpload struct {
	callLog
	result   models.BulkUploadResult
	template []byte
	onUpload func()

	mu       sync.Mutex
	filename string
	content  []byte
}

func (f *fakeBulkUpload) UploadProducts(ctx context.Context, filename string, content []byte) (*models.BulkUploadResult, error) {
	f.add("UploadProducts %s", filename)
	f.mu.Lock()
	f.filename, f.content = filename, content
	f.mu.Unlock()
	if f.onUpload != nil {
		f.onUpload()
	}
	r := f.result
	return &r, nil
}

func (f *fakeBulkUpload) Template(ctx context.Context) ([]byte, error) {
	f.add("Template")
	return f.template, nil
}

// fakeInventory serves fixed inventory records.
type fakeInventory struct {
	callLog
	records []models.InventoryRecord
	low     []models.InventoryRecord
	listErr error
	lowErr  error
}

func (f *fakeInventory) List(ctx context.Context) ([]models.InventoryRecord, error) {
	f.add("List")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.InventoryRecord(nil), f.records...), nil
}

func (f *fakeInventory) LowStock(ctx context.Context) ([]models.InventoryRecord, error) {
	f.add("LowStock")
	if f.lowErr != nil {
		return nil, f.lowErr
	}
	return append([]models.InventoryRecord(nil), f.low...), nil
}

func (f *fakeInventory) Add(ctx context.Context, req clients.InventoryRequest) error {
	f.add("Add %d", req.ProductID)
	return nil
}

func (f *fakeInventory) Edit(ctx context.Context, id int64, req clients.InventoryRequest) error {
	f.add("Edit %d", id)
	return nil
}

func (f *fakeInventory) Delete(ctx context.Context, id int64) error {
	f.add("Delete %d", id)
	return nil
}

// fakeVariations stores attribute rows; failEdit fails the edit of one row.
type fakeVariations struct {
	callLog
	mu       sync.Mutex
	rows     []models.Variation
	nextID   int64
	failEdit map[int64]error
}

func (f *fakeVariations) ListByProduct(ctx context.Context, productID int64) ([]models.Variation, error) {
	f.add("ListByProduct %d", productID)
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Variation
	for _, r := range f.rows {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeVariations) Create(ctx context.Context, req clients.CreateVariationRequest) error {
	f.add("Create %s", req.SKU)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range req.Attributes {
		f.nextID++
		f.rows = append(f.rows, models.Variation{
			ID: f.nextID, ProductID: req.ProductID, SKU: req.SKU,
			AttributeType: a.Type, AttributeValue: a.Value, PriceModifier: req.PriceModifier,
		})
	}
	return nil
}

func (f *fakeVariations) Edit(ctx context.Context, rowID int64, req clients.EditVariationRequest) error {
	f.add("Edit %d", rowID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failEdit[rowID]; err != nil {
		return err
	}
	for i := range f.rows {
		if f.rows[i].ID == rowID {
			f.rows[i].AttributeType = req.AttributeType
			f.rows[i].AttributeValue = req.AttributeValue
			f.rows[i].PriceModifier = req.PriceModifier
		}
	}
	return nil
}

func (f *fakeVariations) DeleteSKU(ctx context.Context, sku string) error {
	f.add("DeleteSKU %s", sku)
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []models.Variation
	for _, r := range f.rows {
		if r.SKU != sku {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

// MockOrdersAPI is a testify mock of OrdersAPI.
type MockOrdersAPI struct {
	mock.Mock
}

func (m *MockOrdersAPI) List(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrdersAPI) Get(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrdersAPI) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrdersAPI) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeBanners accepts every banner write.
type fakeBanners struct {
	callLog
	banners []models.Banner
	forms   []*clients.MultipartBody
}

func (f *fakeBanners) List(ctx context.Context) ([]models.Banner, error) {
	f.add("List")
	return append([]models.Banner(nil), f.banners...), nil
}

func (f *fakeBanners) Upload(ctx context.Context, form *clients.MultipartBody) error {
	f.add("Upload")
	f.forms = append(f.forms, form)
	return nil
}

func (f *fakeBanners) Update(ctx context.Context, id int64, form *clients.MultipartBody) error {
	f.add("Update %d", id)
	f.forms = append(f.forms, form)
	return nil
}

func (f *fakeBanners) Delete(ctx context.Context, id int64) error {
	f.add("Delete %d", id)
	return nil
}

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

	confirmYes = ConfirmFunc(func(context.Context, string) bool { return true })
	confirmNo  = ConfirmFunc(func(context.Context, string) bool { return false })
)

func yes(ctx context.Context) context.Context { return WithConfirmer(ctx, confirmYes) }
func no(ctx context.Context) context.Context  { return WithConfirmer(ctx, confirmNo) }

var mockAny = mock.Anything
