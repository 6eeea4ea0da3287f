package console

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"admin-console/internal/documents"
	"admin-console/internal/models"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// DefaultAutoCloseDelay is how long the summary stays up after a
	// successful import.
	DefaultAutoCloseDelay = 2 * time.Second

	// MaxUploadSize bounds the accepted file size.
	MaxUploadSize = 10 << 20
)

// ImportTemplateColumns are the known template columns; required ones
// must be filled on every row.
var ImportTemplateColumns = []models.ImportTemplateColumn{
	{Name: "name", Required: true},
	{Name: "description"},
	{Name: "price", Required: true},
	{Name: "stock_quantity", Required: true},
	{Name: "category_id", Required: true},
	{Name: "sku"},
	{Name: "image_url"},
}

// BulkUploadState is what the bulk upload panel renders.
type BulkUploadState struct {
	Open       bool                     `json:"open"`
	Submitting bool                     `json:"submitting"`
	Result     *models.BulkUploadResult `json:"result,omitempty"`
	Status     *models.StatusBanner     `json:"status,omitempty"`
}

// BulkUploadPanel posts a product file to the backend importer and shows
// the per-row summary.
type BulkUploadPanel struct {
	api BulkUploadAPI

	// AutoCloseDelay closes the panel after an import with successful rows.
	// Zero closes it at once.
	AutoCloseDelay time.Duration

	// OnImported re-fetches the product list after successful rows.
	OnImported func(ctx context.Context)

	mu         sync.Mutex
	open       bool
	submitting bool
	result     *models.BulkUploadResult
	closer     *time.Timer
	status     statusArea
}

func NewBulkUploadPanel(api BulkUploadAPI, notifier Notifier) *BulkUploadPanel {
	return &BulkUploadPanel{
		api:            api,
		AutoCloseDelay: DefaultAutoCloseDelay,
		status:         statusArea{view: "bulk-upload", notifier: notifier},
	}
}

// Open shows an empty panel.
func (p *BulkUploadPanel) Open() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopTimer()
	p.open = true
	p.result = nil
	p.status.dismiss()
}

func (p *BulkUploadPanel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopTimer()
	p.open = false
}

func (p *BulkUploadPanel) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

func (p *BulkUploadPanel) State() BulkUploadState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return BulkUploadState{
		Open:       p.open,
		Submitting: p.submitting,
		Result:     p.result,
		Status:     p.status.current(),
	}
}

// Submit uploads filename. CSV files are sent as they are; XLSX workbooks
// are converted to CSV first. Anything else is rejected without a request.
func (p *BulkUploadPanel) Submit(ctx context.Context, filename string, r io.Reader) (*models.BulkUploadResult, error) {
	content, err := prepareImport(filename, r)
	if err != nil {
		p.mu.Lock()
		p.status.fail(err)
		p.mu.Unlock()
		return nil, err
	}

	p.mu.Lock()
	p.open = true
	p.submitting = true
	p.stopTimer()
	p.mu.Unlock()

	uploadName := models.ImportFormatCSV.FileName(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	result, err := p.api.UploadProducts(ctx, uploadName, content)

	p.mu.Lock()
	p.submitting = false
	if err != nil {
		p.status.fail(err)
		p.mu.Unlock()
		return nil, err
	}
	p.result = result
	p.announce(result)
	onImported := p.OnImported
	p.mu.Unlock()

	if result.Successful > 0 {
		if onImported != nil {
			onImported(ctx)
		}
		p.scheduleClose()
	}
	return result, nil
}

func (p *BulkUploadPanel) announce(r *models.BulkUploadResult) {
	msg := fmt.Sprintf("Imported %d of %d products", r.Successful, r.TotalProcessed)
	switch r.Outcome() {
	case "success":
		p.status.set(models.BannerSuccess, msg)
	case "partial":
		p.status.set(models.BannerWarning, fmt.Sprintf("%s; %d rows failed", msg, r.Failed))
	default:
		p.status.set(models.BannerDanger, fmt.Sprintf("No products imported; %d rows failed", r.Failed))
	}
}

func (p *BulkUploadPanel) scheduleClose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopTimer()
	if p.AutoCloseDelay <= 0 {
		p.open = false
		return
	}
	p.closer = time.AfterFunc(p.AutoCloseDelay, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.open = false
		p.closer = nil
	})
}

func (p *BulkUploadPanel) stopTimer() {
	if p.closer != nil {
		p.closer.Stop()
		p.closer = nil
	}
}

// prepareImport checks the file and returns the CSV bytes to send.
func prepareImport(filename string, r io.Reader) ([]byte, error) {
	format, ok := models.ImportFormatOf(filename)
	if !ok {
		return nil, fieldError("file", "Only .csv and .xlsx files can be uploaded")
	}

	content, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if len(content) == 0 {
		return nil, fieldError("file", "The file is empty")
	}
	if len(content) > MaxUploadSize {
		return nil, fieldError("file", fmt.Sprintf("The file is larger than %d MB", MaxUploadSize>>20))
	}

	if format == models.ImportFormatXLSX {
		converted, err := documents.XLSXToCSV(bytes.NewReader(content))
		if err != nil {
			return nil, fieldError("file", capitalize(err.Error()))
		}
		return converted, nil
	}

	if !isText(mimetype.Detect(content)) {
		return nil, fieldError("file", "The file does not look like CSV text")
	}
	return content, nil
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// Template downloads the backend's CSV import template.
func (p *BulkUploadPanel) Template(ctx context.Context) ([]byte, error) {
	return p.api.Template(ctx)
}

// TemplateXLSX downloads the CSV template and returns it as a workbook.
func (p *BulkUploadPanel) TemplateXLSX(ctx context.Context) ([]byte, error) {
	data, err := p.api.Template(ctx)
	if err != nil {
		return nil, err
	}
	return documents.CSVToXLSX(data, ImportTemplateColumns)
}
