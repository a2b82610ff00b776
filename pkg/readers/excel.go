package readers

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/lijianqiao/datamerge/pkg/core/table"
)

// ExcelReader читает книги Excel (.xlsx/.xls).
// Каждый лист возвращается отдельной таблицей, порядок листов сохраняется.
type ExcelReader struct {
	nullMarkers []string
}

// NewExcelReader создает читателя Excel с заданными null-маркерами
func NewExcelReader(nullMarkers []string) *ExcelReader {
	return &ExcelReader{nullMarkers: nullMarkers}
}

// Read декодирует книгу Excel в список таблиц, по одной на лист
func (r *ExcelReader) Read(file File) ([]*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		return nil, &ReadError{Filename: file.Name, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ReadError{Filename: file.Name, Err: fmt.Errorf("workbook has no sheets")}
	}

	tables := make([]*table.Table, 0, len(sheets))
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, &ReadError{Filename: file.Name, Err: fmt.Errorf("sheet %q: %w", sheet, err)}
		}
		if len(rows) == 0 {
			return nil, &ReadError{Filename: file.Name, Err: fmt.Errorf("sheet %q: missing header row", sheet)}
		}

		t, err := table.FromRows(sheet, rows[0], rows[1:], r.nullMarkers)
		if err != nil {
			return nil, &ReadError{Filename: file.Name, Err: fmt.Errorf("sheet %q: %w", sheet, err)}
		}
		tables = append(tables, t)
	}

	return tables, nil
}
