package clean

import (
	"context"
	"strings"

	"github.com/lijianqiao/datamerge/pkg/core/table"
)

// Deduplicate удаляет строки, полностью совпадающие по всем колонкам.
// Остается первое вхождение. Чистая функция: вход не мутируется.
func Deduplicate(_ context.Context, t *table.Table) (*table.Table, error) {
	result := t.Clone()

	seen := make(map[string]bool, len(result.Rows))
	unique := make([][]table.Value, 0, len(result.Rows))

	for _, row := range result.Rows {
		key := rowKey(row)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, row)
	}

	result.Rows = unique
	return result, nil
}

// Clean выполняет базовую очистку:
//   - удаляет строки, где все значения null;
//   - в текстовых колонках обрезает пробелы по краям значений,
//     null-значения не трогает.
//
// Чистая функция: вход не мутируется.
func Clean(_ context.Context, t *table.Table) (*table.Table, error) {
	result := t.Clone()

	textColumns := make([]bool, len(result.Columns))
	for i, col := range result.Columns {
		textColumns[i] = col.Type == table.TypeText
	}

	kept := make([][]table.Value, 0, len(result.Rows))
	for _, row := range result.Rows {
		if allNull(row) {
			continue
		}
		for i := range row {
			if i < len(textColumns) && textColumns[i] && !row[i].Null {
				row[i].Raw = strings.TrimSpace(row[i].Raw)
			}
		}
		kept = append(kept, row)
	}

	result.Rows = kept
	return result, nil
}

func allNull(row []table.Value) bool {
	for _, v := range row {
		if !v.Null {
			return false
		}
	}
	return len(row) > 0
}

// rowKey строит ключ строки для дедупликации.
// Null и пустая строка должны давать разные ключи.
func rowKey(row []table.Value) string {
	var sb strings.Builder
	for _, v := range row {
		if v.Null {
			sb.WriteByte(0x01)
		} else {
			sb.WriteString(v.Raw)
		}
		sb.WriteByte(0x00)
	}
	return sb.String()
}
