package table

// QualityReport содержит сводку качества данных таблицы
type QualityReport struct {
	RowCount      int
	ColumnCount   int
	NullCounts    map[string]int
	TotalNulls    int
	EstimatedSize int64
}

// ColumnStats содержит статистику одной колонки
type ColumnStats struct {
	Name           string
	Type           DataType
	NullCount      int
	UniqueCount    int
	NullPercentage float64

	// Только для числовых колонок
	Min  *float64
	Max  *float64
	Mean *float64
}

// Quality строит отчет о качестве данных: количество строк/колонок,
// распределение null-значений и оценка размера.
func (t *Table) Quality() QualityReport {
	report := QualityReport{
		RowCount:      len(t.Rows),
		ColumnCount:   len(t.Columns),
		NullCounts:    make(map[string]int, len(t.Columns)),
		EstimatedSize: t.EstimatedSize(),
	}

	for i, col := range t.Columns {
		nulls := 0
		for _, row := range t.Rows {
			if i >= len(row) || row[i].Null {
				nulls++
			}
		}
		report.NullCounts[col.Name] = nulls
		report.TotalNulls += nulls
	}

	return report
}

// Statistics возвращает статистику по каждой колонке: тип, null-значения,
// количество уникальных значений, для числовых — min/max/mean.
func (t *Table) Statistics() []ColumnStats {
	stats := make([]ColumnStats, len(t.Columns))

	for i, col := range t.Columns {
		cs := ColumnStats{
			Name: col.Name,
			Type: col.Type,
		}

		unique := make(map[string]bool)
		var sum float64
		var count int
		numeric := col.Type == TypeInteger || col.Type == TypeFloat

		for _, row := range t.Rows {
			if i >= len(row) || row[i].Null {
				cs.NullCount++
				continue
			}
			unique[row[i].Raw] = true

			if !numeric {
				continue
			}
			f, ok := row[i].ParseFloat()
			if !ok {
				continue
			}
			if cs.Min == nil || f < *cs.Min {
				v := f
				cs.Min = &v
			}
			if cs.Max == nil || f > *cs.Max {
				v := f
				cs.Max = &v
			}
			sum += f
			count++
		}

		cs.UniqueCount = len(unique)
		if len(t.Rows) > 0 {
			cs.NullPercentage = float64(cs.NullCount) / float64(len(t.Rows)) * 100
		}
		if count > 0 {
			mean := sum / float64(count)
			cs.Mean = &mean
		}

		stats[i] = cs
	}

	return stats
}
