package handlers

import (
	"net/http"

	"admin-console/internal/console"
	"admin-console/internal/events"

	"github.com/gin-gonic/gin"
)

// ListProducts returns the product list
// @Summary List products
// @Tags products
// @Produce json
// @Param q query string false "Search term"
// @Param sort query string false "Sort key (id, name, price, stock)"
// @Param desc query bool false "Descending order"
// @Param refresh query bool false "Re-fetch from the backend"
// @Success 200 {object} models.SuccessResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	listResponse(c, h.workspace(c).Products)
}

// GetProductForm opens the product form; id 0 opens an empty create form
// @Summary Product form
// @Tags products
// @Produce json
// @Param id path int true "Product ID (0 for a new product)"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id}/form [get]
func (h *Handler) GetProductForm(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	ws := h.workspace(c)
	if err := ws.ProductEditor.Open(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, ws.ProductEditor.State(), "")
}

// bindProductForm reads the multipart product form sent by the front end.
func bindProductForm(c *gin.Context) (console.ProductForm, error) {
	raw := map[string]string{
		"price":          c.PostForm("price"),
		"stock_quantity": c.PostForm("stock_quantity"),
		"category_id":    c.PostForm("category_id"),
	}
	invalid := map[string]string{}
	form := console.ProductForm{
		Name:            c.PostForm("name"),
		Description:     c.PostForm("description"),
		LongDescription: c.PostForm("long_description"),
		Price:           parseFloatField(invalid, raw, "price", "Price"),
		StockQuantity:   int(parseIntField(invalid, raw, "stock_quantity", "Stock")),
		CategoryID:      parseIntField(invalid, raw, "category_id", "Category"),
	}
	if len(invalid) > 0 {
		return form, &console.ValidationError{Fields: invalid}
	}
	image, err := readUpload(c, "image")
	if err != nil {
		return form, err
	}
	form.Image = image
	return form, nil
}

// CreateProduct creates a product from a multipart form
// @Summary Create product
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param description formData string false "Description"
// @Param long_description formData string false "Long description"
// @Param price formData number true "Price"
// @Param stock_quantity formData int true "Stock quantity"
// @Param category_id formData int true "Category ID"
// @Param image formData file true "Product image"
// @Success 201 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	h.saveProduct(c, 0)
}

// UpdateProduct replaces a product from a multipart form
// @Summary Update product
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Product ID"
// @Param image formData file false "New product image"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /products/{id} [put]
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	h.saveProduct(c, id)
}

func (h *Handler) saveProduct(c *gin.Context, id int64) {
	form, err := bindProductForm(c)
	if err != nil {
		c.Error(err)
		return
	}
	ws := h.workspace(c)
	if err := ws.ProductEditor.Submit(c.Request.Context(), id, form); err != nil {
		c.Error(err)
		return
	}

	if id == 0 {
		h.record(c, "product", events.ActionCreated, nil, map[string]string{"name": form.Name})
		respond(c, http.StatusCreated, ws.ProductEditor.State(), "Product created")
		return
	}
	h.record(c, "product", events.ActionUpdated, id, map[string]string{"name": form.Name})
	respond(c, http.StatusOK, ws.ProductEditor.State(), "Product updated")
}

// DeleteProduct deletes a product
// @Summary Delete product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} models.SuccessResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /products/{id} [delete]
func (h *Handler) DeleteProduct(c *gin.Context) {
	h.deleteFromList(c, "product", func(c *gin.Context, id int64) error {
		ws := h.workspace(c)
		return console.WithLoaded(c.Request.Context(), ws.Products, func() error {
			return ws.Products.Delete(confirmedContext(c), id)
		})
	})
}
