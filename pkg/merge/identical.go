package merge

import (
	"fmt"
	"strings"

	"github.com/lijianqiao/datamerge/pkg/core/table"
)

// MergeIdentical объединяет таблицы с полностью совпадающими схемами,
// помечая каждую строку меткой источника. В отличие от Merge не выполняет
// нормализацию и пересечение: любое расхождение схем — ошибка с детальным
// перечнем недостающих и лишних колонок.
func MergeIdentical(tables []*table.Table, sourceLabels []string, sourceColumn string) (*Result, error) {
	if len(tables) == 0 {
		return nil, &EmptyInputError{}
	}
	if len(tables) != len(sourceLabels) {
		return nil, fmt.Errorf("table count (%d) does not match source label count (%d)", len(tables), len(sourceLabels))
	}
	if sourceColumn == "" {
		sourceColumn = "source"
	}

	reference := tables[0].ColumnNames()
	for i, t := range tables[1:] {
		if err := compareSchemas(reference, t.ColumnNames(), i+2); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Stats: Stats{TablesIn: len(tables)},
	}

	var merged *table.Table
	for i, t := range tables {
		result.Stats.RowsIn += t.RowCount()

		tagged := t.Clone()
		if err := tagged.AddConstColumn(sourceColumn, sourceLabels[i]); err != nil {
			return nil, fmt.Errorf("table %q: %w", t.Name, err)
		}

		if merged == nil {
			merged = tagged
			merged.Name = "merged"
			continue
		}
		if err := merged.Append(tagged); err != nil {
			return nil, fmt.Errorf("table %q: %w", t.Name, err)
		}
	}

	result.Table = merged
	result.Stats.RowsOut = merged.RowCount()
	result.Stats.ColumnsOut = merged.ColumnCount()
	return result, nil
}

// compareSchemas сравнивает наборы колонок и строит детальное сообщение
// о расхождениях
func compareSchemas(reference, current []string, position int) error {
	if equalNames(reference, current) {
		return nil
	}

	refSet := make(map[string]bool, len(reference))
	for _, name := range reference {
		refSet[name] = true
	}
	curSet := make(map[string]bool, len(current))
	for _, name := range current {
		curSet[name] = true
	}

	var missing, extra []string
	for _, name := range reference {
		if !curSet[name] {
			missing = append(missing, name)
		}
	}
	for _, name := range current {
		if !refSet[name] {
			extra = append(extra, name)
		}
	}

	var details []string
	if len(missing) > 0 {
		details = append(details, fmt.Sprintf("missing columns: %s", strings.Join(missing, ", ")))
	}
	if len(extra) > 0 {
		details = append(details, fmt.Sprintf("extra columns: %s", strings.Join(extra, ", ")))
	}
	if len(details) == 0 {
		details = append(details, "same columns in different order")
	}

	return fmt.Errorf("table %d schema differs from table 1: %s", position, strings.Join(details, "; "))
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
