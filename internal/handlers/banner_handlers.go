package handlers

import (
	"net/http"

	"admin-console/internal/console"
	"admin-console/internal/events"

	"github.com/gin-gonic/gin"
)

func bindBannerForm(c *gin.Context) (console.BannerForm, error) {
	form := console.BannerForm{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}
	image, err := readUpload(c, "image")
	if err != nil {
		return form, err
	}
	form.Image = image
	return form, nil
}

// ListBanners returns the banners
// @Summary List banners
// @Tags banners
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Router /banners [get]
func (h *Handler) ListBanners(c *gin.Context) {
	listResponse(c, h.workspace(c).Banners.ListView)
}

// CreateBanner uploads a banner
// @Summary Upload banner
// @Tags banners
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param image formData file true "Banner image"
// @Success 201 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /banners [post]
func (h *Handler) CreateBanner(c *gin.Context) {
	form, err := bindBannerForm(c)
	if err != nil {
		c.Error(err)
		return
	}
	ws := h.workspace(c)
	if err := ws.Banners.Upload(c.Request.Context(), form); err != nil {
		c.Error(err)
		return
	}
	h.record(c, "banner", events.ActionCreated, nil, map[string]string{"title": form.Title})
	respond(c, http.StatusCreated, ws.Banners.Snapshot(), "Banner uploaded")
}

// UpdateBanner edits a banner
// @Summary Update banner
// @Tags banners
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Banner ID"
// @Param image formData file false "New banner image"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /banners/{id} [put]
func (h *Handler) UpdateBanner(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	form, err := bindBannerForm(c)
	if err != nil {
		c.Error(err)
		return
	}
	ws := h.workspace(c)
	err = console.WithLoaded(c.Request.Context(), ws.Banners.ListView, func() error {
		return ws.Banners.Update(c.Request.Context(), id, form)
	})
	if err != nil {
		c.Error(err)
		return
	}
	h.record(c, "banner", events.ActionUpdated, id, nil)
	respond(c, http.StatusOK, ws.Banners.Snapshot(), "Banner updated")
}

// DeleteBanner deletes a banner
// @Summary Delete banner
// @Tags banners
// @Produce json
// @Param id path int true "Banner ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} models.SuccessResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /banners/{id} [delete]
func (h *Handler) DeleteBanner(c *gin.Context) {
	h.deleteFromList(c, "banner", func(c *gin.Context, id int64) error {
		ws := h.workspace(c)
		return console.WithLoaded(c.Request.Context(), ws.Banners.ListView, func() error {
			return ws.Banners.Delete(confirmedContext(c), id)
		})
	})
}
