package documents

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"admin-console/internal/models"

	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the media type of generated workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const productsSheet = "Products"

// XLSXToCSV converts the product sheet of a workbook into CSV. The sheet
// named "Products" wins, else the first sheet. Header suffixes " *" that
// mark required columns in the template are stripped.
func XLSXToCSV(r io.Reader) ([]byte, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}
	sheetName := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, productsSheet) {
			sheetName = name
			break
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	header := rows[0]
	width := len(header)
	for i := range header {
		header[i] = strings.TrimSuffix(strings.TrimSpace(header[i]), " *")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for i, row := range rows {
		if i > 0 && blankRow(row) {
			continue
		}
		// GetRows trims trailing empty cells; pad so every record has the
		// header's width.
		for len(row) < width {
			row = append(row, "")
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// CSVToXLSX turns a CSV template into a styled workbook. Header cells that
// name a required column get the required style and a " *" suffix.
func CSVToXLSX(data []byte, columns []models.ImportTemplateColumn) ([]byte, error) {
	required := make(map[string]bool, len(columns))
	for _, col := range columns {
		if col.Required {
			required[col.Name] = true
		}
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV template: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV template is empty")
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", productsSheet); err != nil {
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, name := range records[0] {
		name = strings.TrimSpace(name)
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		style := headerStyle
		text := name
		if required[name] {
			style = requiredStyle
			text = name + " *"
		}
		f.SetCellValue(productsSheet, cell, text)
		f.SetCellStyle(productsSheet, cell, cell, style)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(productsSheet, colName, colName, 20)
	}

	for r, record := range records[1:] {
		for c, value := range record {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(productsSheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
