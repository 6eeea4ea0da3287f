package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"admin-console/internal/console"
	"admin-console/internal/documents"
	"admin-console/internal/events"
	"admin-console/internal/models"

	"github.com/gin-gonic/gin"
)

// BulkUpload imports products from a CSV or XLSX file
// @Summary Bulk product upload
// @Description CSV is sent as is; XLSX is converted to CSV first
// @Tags bulk-upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Products file (.csv or .xlsx)"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /bulk-upload [post]
func (h *Handler) BulkUpload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.Error(&console.ValidationError{Fields: map[string]string{"file": "Choose a file to upload"}})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.Error(err)
		return
	}
	defer f.Close()

	ws := h.workspace(c)
	ws.BulkUpload.Open()
	result, err := ws.BulkUpload.Submit(c.Request.Context(), fh.Filename, f)
	if err != nil {
		c.Error(err)
		return
	}

	if result.Successful > 0 {
		h.record(c, "product", events.ActionImported, nil, map[string]string{
			"file":       fh.Filename,
			"successful": strconv.Itoa(result.Successful),
			"failed":     strconv.Itoa(result.Failed),
		})
	}
	respond(c, http.StatusOK, ws.BulkUpload.State(), "")
}

// BulkUploadTemplate downloads the import template
// @Summary Bulk upload template
// @Tags bulk-upload
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file
// @Router /bulk-upload/template [get]
func (h *Handler) BulkUploadTemplate(c *gin.Context) {
	ws := h.workspace(c)
	ctx := c.Request.Context()

	format := models.ImportFormat(c.DefaultQuery("format", string(models.ImportFormatCSV)))
	disposition := fmt.Sprintf("attachment; filename=%q", format.FileName("product_import_template"))
	switch format {
	case models.ImportFormatXLSX:
		data, err := ws.BulkUpload.TemplateXLSX(ctx)
		if err != nil {
			c.Error(err)
			return
		}
		c.Header("Content-Disposition", disposition)
		c.Data(http.StatusOK, documents.XLSXContentType, data)
	case models.ImportFormatCSV:
		data, err := ws.BulkUpload.Template(ctx)
		if err != nil {
			c.Error(err)
			return
		}
		c.Header("Content-Disposition", disposition)
		c.Data(http.StatusOK, "text/csv", data)
	default:
		c.Error(&console.ValidationError{Fields: map[string]string{"format": "Format must be csv or xlsx"}})
	}
}
