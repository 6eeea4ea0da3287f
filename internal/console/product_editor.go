package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"admin-console/internal/clients"
	"admin-console/internal/models"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
)

// ImageUpload is an image file picked in a form.
type ImageUpload struct {
	Filename string `json:"filename"`
	Content  []byte `json:"-"`
}

// ProductForm is the create/edit product form.
type ProductForm struct {
	Name            string       `json:"name" form:"name" label:"Product name" validate:"required,max=255"`
	Description     string       `json:"description" form:"description" validate:"max=1000"`
	LongDescription string       `json:"long_description" form:"long_description" validate:"max=10000"`
	Price           float64      `json:"price" form:"price" validate:"gt=0"`
	StockQuantity   int          `json:"stock_quantity" form:"stock_quantity" label:"Stock" validate:"gte=0"`
	CategoryID      int64        `json:"category_id" form:"category_id" label:"Category" validate:"required,gt=0"`
	Image           *ImageUpload `json:"-" form:"image"`
}

// FormFromProduct pre-fills a form from a fetched product.
func FormFromProduct(p *models.Product) ProductForm {
	return ProductForm{
		Name:            p.Name,
		Description:     p.Description,
		LongDescription: p.LongDescription,
		Price:           p.Price,
		StockQuantity:   p.StockQuantity,
		CategoryID:      p.CategoryID,
	}
}

// ProductEditorState is what the product form renders.
type ProductEditorState struct {
	ProductID  int64                `json:"product_id,omitempty"`
	Mode       string               `json:"mode"`
	Form       ProductForm          `json:"form"`
	Fields     []Field              `json:"fields"`
	ImageURL   string               `json:"image_url,omitempty"`
	Categories []models.Category    `json:"categories"`
	Loading    bool                 `json:"loading"`
	Submitting bool                 `json:"submitting"`
	Status     *models.StatusBanner `json:"status,omitempty"`
}

// ProductEditor drives the product create and edit form.
type ProductEditor struct {
	products   ProductsAPI
	categories CategoriesAPI
	validator  *FormValidator
	tasks      *TaskRegistry

	// OnSaved runs after a successful write so the owning list re-fetches.
	OnSaved func(ctx context.Context)

	mu         sync.Mutex
	productID  int64
	form       ProductForm
	imageURL   string
	lookup     []models.Category
	formErr    error
	loading    bool
	submitting bool
	status     statusArea
}

func NewProductEditor(products ProductsAPI, categories CategoriesAPI, validator *FormValidator, tasks *TaskRegistry, notifier Notifier) *ProductEditor {
	if validator == nil {
		validator = NewFormValidator()
	}
	if tasks == nil {
		tasks = NewTaskRegistry()
	}
	return &ProductEditor{
		products:   products,
		categories: categories,
		validator:  validator,
		tasks:      tasks,
		status:     statusArea{view: "product-editor", notifier: notifier},
	}
}

// Open loads the category lookup and, for id > 0, the product to edit.
// Both requests run in parallel; either failing fails the open.
func (e *ProductEditor) Open(ctx context.Context, id int64) error {
	ctx, task := e.tasks.Begin(ctx, TaskKey{View: "product-editor", Kind: "open"})
	defer task.Done()

	e.mu.Lock()
	e.loading = true
	e.mu.Unlock()

	var (
		lookup  []models.Category
		product *models.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lookup, err = e.categories.List(gctx)
		return err
	})
	if id > 0 {
		g.Go(func() error {
			var err error
			product, err = e.products.Get(gctx, id)
			return err
		})
	}
	err := g.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	if !task.Current() {
		return ErrSuperseded
	}
	e.loading = false
	if err != nil {
		e.status.fail(err)
		return err
	}

	e.lookup = lookup
	e.productID = id
	e.formErr = nil
	e.status.dismiss()
	if product != nil {
		e.form = FormFromProduct(product)
		e.imageURL = product.ImageURL
	} else {
		e.form = ProductForm{}
		e.imageURL = ""
	}
	return nil
}

// Submit validates form and sends it as product id, or as a new product
// when id is 0. Create success clears the form; edit success keeps it. On
// failure the submitted values stay in place.
func (e *ProductEditor) Submit(ctx context.Context, id int64, form ProductForm) error {
	e.mu.Lock()
	if e.productID != id {
		e.imageURL = ""
	}
	e.productID = id
	e.form = form
	e.mu.Unlock()

	if err := e.check(form, id == 0); err != nil {
		e.mu.Lock()
		e.formErr = err
		e.status.fail(err)
		e.mu.Unlock()
		return err
	}

	body := BuildProductBody(form)

	e.mu.Lock()
	e.submitting = true
	e.formErr = nil
	e.mu.Unlock()

	var (
		saved *models.Product
		err   error
	)
	if id == 0 {
		saved, err = e.products.Create(ctx, body)
	} else {
		saved, err = e.products.Update(ctx, id, body)
	}

	e.mu.Lock()
	e.submitting = false
	if err != nil {
		e.status.fail(err)
		e.mu.Unlock()
		return err
	}
	if id == 0 {
		e.form = ProductForm{}
		e.status.success(fmt.Sprintf("Product %q created", form.Name))
	} else {
		e.form.Image = nil
		if saved != nil && saved.ImageURL != "" {
			e.imageURL = saved.ImageURL
		}
		e.status.success(fmt.Sprintf("Product %q updated", form.Name))
	}
	onSaved := e.OnSaved
	e.mu.Unlock()

	if onSaved != nil {
		onSaved(ctx)
	}
	return nil
}

func (e *ProductEditor) check(form ProductForm, creating bool) error {
	err := e.validator.Validate(form)
	verr, _ := err.(*ValidationError)
	if err != nil && verr == nil {
		return err
	}
	if verr == nil {
		verr = &ValidationError{Fields: map[string]string{}}
	}

	switch {
	case form.Image == nil || len(form.Image.Content) == 0:
		if creating {
			verr.Fields["image"] = "Image is required"
		}
	default:
		if msg := checkImage(form.Image); msg != "" {
			verr.Fields["image"] = msg
		}
	}

	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

func checkImage(img *ImageUpload) string {
	mt := mimetype.Detect(img.Content)
	if !strings.HasPrefix(mt.String(), "image/") {
		return fmt.Sprintf("Image must be a picture file, got %s", mt.String())
	}
	return ""
}

// BuildProductBody renders the product form as the multipart body the
// backend expects. The image part is present only when a file was picked.
func BuildProductBody(form ProductForm) *clients.MultipartBody {
	body := clients.NewMultipartBody().
		Set("name", strings.TrimSpace(form.Name)).
		Set("description", form.Description).
		Set("long_description", form.LongDescription).
		Set("price", models.FormatDecimal(form.Price)).
		Set("stock_quantity", strconv.Itoa(form.StockQuantity)).
		Set("category_id", strconv.FormatInt(form.CategoryID, 10))
	if form.Image != nil && len(form.Image.Content) > 0 {
		body.Attach(clients.FilePart{
			Field:       "image",
			Filename:    form.Image.Filename,
			ContentType: mimetype.Detect(form.Image.Content).String(),
			Content:     form.Image.Content,
		})
	}
	return body
}

// State returns the form with its field errors and lookups.
func (e *ProductEditor) State() ProductEditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	mode := "create"
	if e.productID > 0 {
		mode = "edit"
	}
	return ProductEditorState{
		ProductID:  e.productID,
		Mode:       mode,
		Form:       e.form,
		Fields:     BindFields(e.form, e.formErr),
		ImageURL:   e.imageURL,
		Categories: append([]models.Category(nil), e.lookup...),
		Loading:    e.loading,
		Submitting: e.submitting,
		Status:     e.status.current(),
	}
}

func (e *ProductEditor) Dismiss() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.dismiss()
}
