package table

import (
	"strconv"
)

// InferTypes выводит тип каждой колонки по её значениям.
// Порядок проверки: INTEGER → FLOAT → BOOLEAN → TEXT.
// Колонка из одних null остается TEXT.
func (t *Table) InferTypes() {
	for col := range t.Columns {
		t.Columns[col].Type = inferColumnType(t, col)
	}
}

func inferColumnType(t *Table, col int) DataType {
	isInt := true
	isFloat := true
	isBool := true
	hasValue := false

	for _, row := range t.Rows {
		if col >= len(row) || row[col].Null {
			continue
		}
		hasValue = true
		raw := row[col].Raw

		if isInt {
			if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				isFloat = false
			}
		}
		if isBool && !isBoolLiteral(raw) {
			isBool = false
		}

		if !isInt && !isFloat && !isBool {
			return TypeText
		}
	}

	if !hasValue {
		return TypeText
	}

	switch {
	case isInt:
		return TypeInteger
	case isFloat:
		return TypeFloat
	case isBool:
		return TypeBoolean
	default:
		return TypeText
	}
}

func isBoolLiteral(s string) bool {
	switch s {
	case "true", "false", "TRUE", "FALSE", "True", "False":
		return true
	}
	return false
}

// ParseInt интерпретирует значение как целое число
func (v Value) ParseInt() (int64, bool) {
	if v.Null {
		return 0, false
	}
	n, err := strconv.ParseInt(v.Raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseFloat интерпретирует значение как число с плавающей точкой
func (v Value) ParseFloat() (float64, bool) {
	if v.Null {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.Raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseBool интерпретирует значение как булево
func (v Value) ParseBool() (bool, bool) {
	if v.Null {
		return false, false
	}
	switch v.Raw {
	case "true", "TRUE", "True":
		return true, true
	case "false", "FALSE", "False":
		return false, true
	}
	return false, false
}
