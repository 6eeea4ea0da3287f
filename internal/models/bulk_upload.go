package models

import (
	"path/filepath"
	"strings"
)

// ImportFormat is the file format accepted by the bulk upload panel.
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// ImportFormatOf maps a file name to its import format by extension.
func ImportFormatOf(filename string) (ImportFormat, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch f := ImportFormat(strings.TrimPrefix(ext, ".")); f {
	case ImportFormatCSV, ImportFormatXLSX:
		return f, true
	}
	return "", false
}

// FileName returns base with the format's extension.
func (f ImportFormat) FileName(base string) string {
	return base + "." + string(f)
}

// ImportTemplateColumn describes a column of the bulk product template.
type ImportTemplateColumn struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// ImportRowError reports a row the backend could not import.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// BulkUploadResult is the per-row summary returned by POST /bulk-upload/products.
type BulkUploadResult struct {
	TotalProcessed int              `json:"total_processed"`
	Successful     int              `json:"successful"`
	Failed         int              `json:"failed"`
	Errors         []ImportRowError `json:"errors,omitempty"`
}

// Outcome classifies the summary for the status banner.
func (r BulkUploadResult) Outcome() string {
	switch {
	case r.Successful > 0 && r.Failed == 0:
		return "success"
	case r.Successful > 0:
		return "partial"
	default:
		return "failed"
	}
}
