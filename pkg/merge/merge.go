package merge

import (
	"fmt"
	"strings"

	"github.com/lijianqiao/datamerge/pkg/core/table"
)

// Options опции для объединения
type Options struct {
	// SourceColumn - имя колонки-источника. Если не пустое, каждая строка
	// результата помечается именем таблицы, из которой она пришла.
	SourceColumn string
}

// Stats статистика объединения
type Stats struct {
	TablesIn   int // Количество объединённых таблиц
	RowsIn     int // Всего строк на входе
	RowsOut    int // Строк в результате
	ColumnsOut int // Колонок в результате

	// DroppedColumns - нормализованные имена колонок, не попавшие в
	// пересечение, по именам входных таблиц
	DroppedColumns map[string][]string
}

// Result результат объединения
type Result struct {
	Table *table.Table
	Stats Stats
}

// EmptyInputError возникает при вызове объединения без входных таблиц
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string {
	return "no tables to merge"
}

// NoCommonColumnsError возникает когда пересечение колонок пусто.
// Объединение таблиц без общих колонок считается ошибкой, а не
// конкатенацией с пустой схемой.
type NoCommonColumnsError struct {
	Tables []string
}

func (e *NoCommonColumnsError) Error() string {
	return fmt.Sprintf("no common columns across %d tables (%s)", len(e.Tables), strings.Join(e.Tables, ", "))
}

// Merger выполняет согласование схем и вертикальное объединение таблиц
type Merger struct {
	options Options
}

// NewMerger создаёт новый Merger
func NewMerger(options Options) *Merger {
	return &Merger{options: options}
}

// NormalizeColumnName приводит имя колонки к каноническому виду:
// обрезка пробелов по краям, нижний регистр, внутренние пробелы → "_".
func NormalizeColumnName(name string) string {
	normalized := strings.TrimSpace(name)
	normalized = strings.ToLower(normalized)
	return strings.ReplaceAll(normalized, " ", "_")
}

// Merge объединяет несколько таблиц в одну.
//
// Пересечение общих колонок вычисляется по НОРМАЛИЗОВАННЫМ именам: колонки
// "Name" и "name " считаются одной и той же. Каждая таблица проецируется
// на пересечение, затем строки складываются вертикально. Порядок колонок
// результата — порядок появления в первой таблице.
//
// Одна входная таблица возвращается без изменений (и без копирования),
// если не запрошена колонка-источник.
func (m *Merger) Merge(tables ...*table.Table) (*Result, error) {
	if len(tables) == 0 {
		return nil, &EmptyInputError{}
	}

	if len(tables) == 1 && m.options.SourceColumn == "" {
		return &Result{
			Table: tables[0],
			Stats: Stats{
				TablesIn:   1,
				RowsIn:     tables[0].RowCount(),
				RowsOut:    tables[0].RowCount(),
				ColumnsOut: tables[0].ColumnCount(),
			},
		}, nil
	}

	common, err := commonColumns(tables)
	if err != nil {
		return nil, err
	}

	if len(common) == 0 {
		names := make([]string, len(tables))
		for i, t := range tables {
			names[i] = t.Name
		}
		return nil, &NoCommonColumnsError{Tables: names}
	}

	result := &Result{
		Stats: Stats{
			TablesIn:       len(tables),
			DroppedColumns: make(map[string][]string),
		},
	}

	var merged *table.Table
	for _, t := range tables {
		result.Stats.RowsIn += t.RowCount()

		projected, dropped, err := m.project(t, common)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", t.Name, err)
		}
		if len(dropped) > 0 {
			result.Stats.DroppedColumns[t.Name] = dropped
		}

		if m.options.SourceColumn != "" {
			if err := projected.AddConstColumn(m.options.SourceColumn, t.Name); err != nil {
				return nil, fmt.Errorf("table %q: %w", t.Name, err)
			}
		}

		if merged == nil {
			merged = projected
			merged.Name = "merged"
			continue
		}
		if err := merged.Append(projected); err != nil {
			return nil, fmt.Errorf("table %q: %w", t.Name, err)
		}
	}

	result.Table = merged
	result.Stats.RowsOut = merged.RowCount()
	result.Stats.ColumnsOut = merged.ColumnCount()
	return result, nil
}

// commonColumns вычисляет пересечение нормализованных имен колонок,
// сохраняя порядок первой таблицы
func commonColumns(tables []*table.Table) ([]string, error) {
	first, err := normalizedNames(tables[0])
	if err != nil {
		return nil, err
	}

	present := make(map[string]int, len(first))
	for _, name := range first {
		present[name] = 1
	}

	for _, t := range tables[1:] {
		names, err := normalizedNames(t)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			if _, ok := present[name]; ok && !seen[name] {
				present[name]++
				seen[name] = true
			}
		}
	}

	var common []string
	for _, name := range first {
		if present[name] == len(tables) {
			common = append(common, name)
		}
	}
	return common, nil
}

// normalizedNames возвращает нормализованные имена колонок таблицы.
// Коллизия нормализованных имен внутри одной таблицы — ошибка.
func normalizedNames(t *table.Table) ([]string, error) {
	names := make([]string, t.ColumnCount())
	seen := make(map[string]string, t.ColumnCount())
	for i, raw := range t.ColumnNames() {
		normalized := NormalizeColumnName(raw)
		if prev, ok := seen[normalized]; ok {
			return nil, fmt.Errorf("table %q: columns %q and %q normalize to the same name %q",
				t.Name, prev, raw, normalized)
		}
		seen[normalized] = raw
		names[i] = normalized
	}
	return names, nil
}

// project нормализует имена колонок таблицы и проецирует её на общий набор.
// Возвращает также имена отброшенных колонок.
func (m *Merger) project(t *table.Table, common []string) (*table.Table, []string, error) {
	clone := t.Clone()

	mapping := make(map[string]string, clone.ColumnCount())
	for _, raw := range clone.ColumnNames() {
		mapping[raw] = NormalizeColumnName(raw)
	}
	if err := clone.Rename(mapping); err != nil {
		return nil, nil, err
	}

	inCommon := make(map[string]bool, len(common))
	for _, name := range common {
		inCommon[name] = true
	}
	var dropped []string
	for _, name := range clone.ColumnNames() {
		if !inCommon[name] {
			dropped = append(dropped, name)
		}
	}

	projected, err := clone.Select(common)
	if err != nil {
		return nil, nil, err
	}
	return projected, dropped, nil
}

// FormatText форматирует статистику объединения в текстовый вид
func (r *Result) FormatText() string {
	var sb strings.Builder

	sb.WriteString("=== Merge Statistics ===\n")
	sb.WriteString(fmt.Sprintf("Tables merged:  %d\n", r.Stats.TablesIn))
	sb.WriteString(fmt.Sprintf("Total rows in:  %d\n", r.Stats.RowsIn))
	sb.WriteString(fmt.Sprintf("Total rows out: %d\n", r.Stats.RowsOut))
	sb.WriteString(fmt.Sprintf("Columns out:    %d\n", r.Stats.ColumnsOut))

	if len(r.Stats.DroppedColumns) > 0 {
		sb.WriteString("\n=== Dropped Columns ===\n")
		for tableName, columns := range r.Stats.DroppedColumns {
			sb.WriteString(fmt.Sprintf("%s: %s\n", tableName, strings.Join(columns, ", ")))
		}
	}

	return sb.String()
}
