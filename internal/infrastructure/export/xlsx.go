package export

import (
	"fmt"

	"github.com/labellens/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the media type of workbooks produced by XLSXExporter
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetName is the name of the single sheet in exported workbooks
const SheetName = "Product Details"

var headers = []string{"Section", "Key", "Value"}

var columnWidths = []struct {
	col   string
	width float64
}{
	{"A", 14},
	{"B", 24},
	{"C", 48},
}

// XLSXExporter renders flat records as a spreadsheet
type XLSXExporter struct{}

// NewXLSXExporter creates a new XLSX exporter
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// ContentType returns the media type of exported documents
func (e *XLSXExporter) ContentType() string {
	return ContentTypeXLSX
}

// Export returns a workbook with a header row and one row per record, in order
func (e *XLSXExporter) Export(records []domain.FlatRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	write := func(col, row int, v string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(SheetName, cell, v)
	}

	for i, h := range headers {
		if err := write(i+1, 1, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, r := range records {
		row := i + 2
		for col, v := range []string{string(r.Section), r.Key, r.Value} {
			if err := write(col+1, row, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	for _, w := range columnWidths {
		if err := f.SetColWidth(SheetName, w.col, w.col, w.width); err != nil {
			return nil, fmt.Errorf("set width of column %s: %w", w.col, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
