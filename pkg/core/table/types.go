package table

// DataType представляет тип данных колонки
type DataType string

// Поддерживаемые типы данных, выводимые при чтении
const (
	TypeText    DataType = "TEXT"
	TypeInteger DataType = "INTEGER"
	TypeFloat   DataType = "FLOAT"
	TypeBoolean DataType = "BOOLEAN"
)

// Column описывает одну колонку таблицы
type Column struct {
	Name string
	Type DataType
}

// Value представляет одно значение ячейки.
// Тип значения определяется колонкой, само значение хранится как строка —
// интерпретация происходит на границах (экспорт, статистика).
type Value struct {
	Raw  string
	Null bool
}

// Null возвращает null-значение
func Null() Value {
	return Value{Null: true}
}

// String создает текстовое значение
func String(s string) Value {
	return Value{Raw: s}
}

// Table представляет таблицу в памяти: упорядоченный набор именованных
// колонок и строки как кортежи значений. Инвариант: имена колонок
// уникальны в пределах таблицы.
type Table struct {
	Name    string // Имя источника (файл или лист)
	Columns []Column
	Rows    [][]Value
}

// UnknownColumnError возникает при обращении к отсутствующей колонке
type UnknownColumnError struct {
	Column string
	Table  string
}

func (e *UnknownColumnError) Error() string {
	if e.Table != "" {
		return "unknown column \"" + e.Column + "\" in table \"" + e.Table + "\""
	}
	return "unknown column \"" + e.Column + "\""
}
