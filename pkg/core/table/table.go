package table

import (
	"fmt"
)

// New создает таблицу с заданными колонками без данных.
// Возвращает ошибку при дубликатах имен колонок.
func New(name string, columns []Column) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("table %q: empty column name", name)
		}
		if seen[col.Name] {
			return nil, fmt.Errorf("table %q: duplicate column name %q", name, col.Name)
		}
		seen[col.Name] = true
	}
	return &Table{
		Name:    name,
		Columns: columns,
	}, nil
}

// FromRows строит таблицу из заголовка и строковых строк.
// Типы колонок выводятся по содержимому, null-маркеры превращаются в null.
// Используется читателями файлов.
func FromRows(name string, header []string, rows [][]string, nullMarkers []string) (*Table, error) {
	columns := make([]Column, len(header))
	for i, h := range header {
		columns[i] = Column{Name: h, Type: TypeText}
	}

	t, err := New(name, columns)
	if err != nil {
		return nil, err
	}

	markers := make(map[string]bool, len(nullMarkers))
	for _, m := range nullMarkers {
		markers[m] = true
	}

	t.Rows = make([][]Value, len(rows))
	for i, row := range rows {
		values := make([]Value, len(header))
		for j := range header {
			if j >= len(row) || markers[row[j]] {
				values[j] = Null()
				continue
			}
			values[j] = String(row[j])
		}
		t.Rows[i] = values
	}

	t.InferTypes()
	return t, nil
}

// RowCount возвращает количество строк
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount возвращает количество колонок
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// ColumnNames возвращает имена колонок в порядке их следования
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// ColumnIndex возвращает индекс колонки по имени, -1 если колонки нет
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// Select проецирует таблицу на указанные колонки в заданном порядке.
// Возвращает UnknownColumnError если колонка отсутствует.
func (t *Table) Select(columns []string) (*Table, error) {
	indices := make([]int, len(columns))
	selected := make([]Column, len(columns))
	for i, name := range columns {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			return nil, &UnknownColumnError{Column: name, Table: t.Name}
		}
		indices[i] = idx
		selected[i] = t.Columns[idx]
	}

	result, err := New(t.Name, selected)
	if err != nil {
		return nil, err
	}

	result.Rows = make([][]Value, len(t.Rows))
	for r, row := range t.Rows {
		values := make([]Value, len(indices))
		for i, idx := range indices {
			if idx < len(row) {
				values[i] = row[idx]
			} else {
				values[i] = Null()
			}
		}
		result.Rows[r] = values
	}

	return result, nil
}

// Rename переименовывает колонки по отображению старое→новое.
// Колонки без соответствия остаются как есть.
func (t *Table) Rename(mapping map[string]string) error {
	renamed := make([]Column, len(t.Columns))
	seen := make(map[string]bool, len(t.Columns))
	for i, col := range t.Columns {
		name := col.Name
		if newName, ok := mapping[name]; ok {
			name = newName
		}
		if seen[name] {
			return fmt.Errorf("table %q: rename produces duplicate column %q", t.Name, name)
		}
		seen[name] = true
		renamed[i] = Column{Name: name, Type: col.Type}
	}
	t.Columns = renamed
	return nil
}

// Append добавляет строки другой таблицы в конец текущей.
// Наборы колонок должны совпадать по именам и порядку.
func (t *Table) Append(other *Table) error {
	if len(other.Columns) != len(t.Columns) {
		return fmt.Errorf("column count mismatch: %d vs %d", len(t.Columns), len(other.Columns))
	}
	for i, col := range other.Columns {
		if col.Name != t.Columns[i].Name {
			return fmt.Errorf("column mismatch at position %d: %q vs %q", i, t.Columns[i].Name, col.Name)
		}
	}
	t.Rows = append(t.Rows, other.Rows...)
	return nil
}

// Clone создает глубокую копию таблицы
func (t *Table) Clone() *Table {
	columns := make([]Column, len(t.Columns))
	copy(columns, t.Columns)

	rows := make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		values := make([]Value, len(row))
		copy(values, row)
		rows[i] = values
	}

	return &Table{
		Name:    t.Name,
		Columns: columns,
		Rows:    rows,
	}
}

// AddConstColumn добавляет колонку с одинаковым значением во всех строках.
// Используется для колонки-источника при объединении.
func (t *Table) AddConstColumn(name, value string) error {
	if t.ColumnIndex(name) >= 0 {
		return fmt.Errorf("table %q: column %q already exists", t.Name, name)
	}
	t.Columns = append(t.Columns, Column{Name: name, Type: TypeText})
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], String(value))
	}
	return nil
}

// EstimatedSize возвращает приблизительный размер данных в байтах.
// Оценка по средней ширине значения, O(колонок), без прохода по всем ячейкам.
func (t *Table) EstimatedSize() int64 {
	if len(t.Columns) == 0 {
		return 0
	}

	// Выборка первых строк как репрезентативная оценка ширины строки
	const sampleRows = 64
	sample := len(t.Rows)
	if sample > sampleRows {
		sample = sampleRows
	}

	var sampleBytes int64
	for i := 0; i < sample; i++ {
		for _, v := range t.Rows[i] {
			if !v.Null {
				sampleBytes += int64(len(v.Raw))
			}
		}
	}

	if sample == 0 {
		return int64(len(t.Columns)) * 8
	}

	avgRow := sampleBytes / int64(sample)
	// Минимум байт на ячейку, чтобы пустые таблицы не оценивались в ноль
	if minRow := int64(len(t.Columns)); avgRow < minRow {
		avgRow = minRow
	}
	return avgRow * int64(len(t.Rows))
}
