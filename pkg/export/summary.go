package export

import (
	"fmt"

	"github.com/lijianqiao/datamerge/pkg/core/table"
)

// Summary describes an export without performing it.
type Summary struct {
	RowCount        int
	ColumnCount     int
	SelectedColumns []string
	EstimatedBytes  int64
}

// FormatSize renders the estimated size in MB.
func (s Summary) FormatSize() string {
	return fmt.Sprintf("%.2f MB", float64(s.EstimatedBytes)/1024/1024)
}

// GetSummary computes the export summary cheaply: row/column counts and a
// size estimate, no serialization. Columns default to all columns.
// An absent requested column yields UnknownColumnError.
func GetSummary(t *table.Table, columns []string) (Summary, error) {
	selected := columns
	if len(selected) == 0 {
		selected = t.ColumnNames()
	} else {
		for _, name := range selected {
			if t.ColumnIndex(name) < 0 {
				return Summary{}, &table.UnknownColumnError{Column: name, Table: t.Name}
			}
		}
	}

	estimated := t.EstimatedSize()
	if t.ColumnCount() > 0 && len(selected) < t.ColumnCount() {
		// Проекция уменьшает оценку пропорционально доле колонок
		estimated = estimated * int64(len(selected)) / int64(t.ColumnCount())
	}

	return Summary{
		RowCount:        t.RowCount(),
		ColumnCount:     len(selected),
		SelectedColumns: selected,
		EstimatedBytes:  estimated,
	}, nil
}

// Validation is the outcome of a pre-export check.
type Validation struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// sizeWarningBytes - exports above this estimate get a size warning.
const sizeWarningBytes = 100 * 1024 * 1024

// ValidateExportData checks a table before export: referenced columns must
// exist, empty tables and very large exports produce warnings.
func ValidateExportData(t *table.Table, columns []string) Validation {
	result := Validation{Valid: true}

	if t.RowCount() == 0 {
		result.Warnings = append(result.Warnings, "table has no rows")
	}

	for _, name := range columns {
		if t.ColumnIndex(name) < 0 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("column does not exist: %s", name))
		}
	}

	if result.Valid {
		summary, err := GetSummary(t, columns)
		if err == nil && summary.EstimatedBytes > sizeWarningBytes {
			result.Warnings = append(result.Warnings, fmt.Sprintf("large export: %s", summary.FormatSize()))
		}
	}

	return result
}
