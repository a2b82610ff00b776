package readers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/lijianqiao/datamerge/pkg/core/table"
)

// CSVReader читает CSV файлы: UTF-8, запятая-разделитель,
// обязательная строка заголовка. Всегда возвращает ровно одну таблицу.
type CSVReader struct {
	nullMarkers []string
}

// NewCSVReader создает читателя CSV с заданными null-маркерами
func NewCSVReader(nullMarkers []string) *CSVReader {
	return &CSVReader{nullMarkers: nullMarkers}
}

// Read декодирует CSV файл в одну таблицу
func (r *CSVReader) Read(file File) ([]*table.Table, error) {
	reader := csv.NewReader(bytes.NewReader(file.Data))
	reader.FieldsPerRecord = -1 // Длина строк выравнивается при сборке таблицы

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ReadError{Filename: file.Name, Err: fmt.Errorf("missing header row")}
		}
		return nil, &ReadError{Filename: file.Name, Err: err}
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ReadError{Filename: file.Name, Err: err}
		}
		rows = append(rows, record)
	}

	t, err := table.FromRows(file.Label(), header, rows, r.nullMarkers)
	if err != nil {
		return nil, &ReadError{Filename: file.Name, Err: err}
	}

	return []*table.Table{t}, nil
}
