package readers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/lijianqiao/datamerge/pkg/core/table"
)

// SQLiteReader читает файлы баз SQLite (.sqlite/.db).
// Каждая пользовательская таблица базы возвращается отдельной таблицей,
// порядок — по имени для детерминизма.
type SQLiteReader struct{}

// NewSQLiteReader создает читателя SQLite
func NewSQLiteReader() *SQLiteReader {
	return &SQLiteReader{}
}

// Read открывает базу и выгружает все пользовательские таблицы.
// Содержимое приходит байтами, поэтому база сначала пишется во
// временный файл — драйверу нужен путь.
func (r *SQLiteReader) Read(file File) ([]*table.Table, error) {
	tmp, err := os.CreateTemp("", "datamerge-*"+filepath.Ext(file.Name))
	if err != nil {
		return nil, &ReadError{Filename: file.Name, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(file.Data); err != nil {
		tmp.Close()
		return nil, &ReadError{Filename: file.Name, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return nil, &ReadError{Filename: file.Name, Err: err}
	}

	db, err := sql.Open("sqlite", tmpPath)
	if err != nil {
		return nil, &ReadError{Filename: file.Name, Err: err}
	}
	defer db.Close()

	names, err := listTables(db)
	if err != nil {
		return nil, &ReadError{Filename: file.Name, Err: err}
	}
	if len(names) == 0 {
		return nil, &ReadError{Filename: file.Name, Err: fmt.Errorf("database has no tables")}
	}

	tables := make([]*table.Table, 0, len(names))
	for _, name := range names {
		t, err := readTable(db, name)
		if err != nil {
			return nil, &ReadError{Filename: file.Name, Err: fmt.Errorf("table %q: %w", name, err)}
		}
		tables = append(tables, t)
	}

	return tables, nil
}

func listTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func readTable(db *sql.DB, name string) (*table.Table, error) {
	rows, err := db.Query(fmt.Sprintf(`SELECT * FROM %q`, name))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columnNames, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	columns := make([]table.Column, len(columnNames))
	for i, cn := range columnNames {
		columns[i] = table.Column{Name: cn, Type: table.TypeText}
	}

	t, err := table.New(name, columns)
	if err != nil {
		return nil, err
	}

	scan := make([]any, len(columnNames))
	cells := make([]sql.NullString, len(columnNames))
	for i := range cells {
		scan[i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, err
		}
		values := make([]table.Value, len(cells))
		for i, cell := range cells {
			if cell.Valid {
				values[i] = table.String(cell.String)
			} else {
				values[i] = table.Null()
			}
		}
		t.Rows = append(t.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	t.InferTypes()
	return t, nil
}
