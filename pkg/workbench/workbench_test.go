package workbench

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/lijianqiao/datamerge/pkg/merge"
	"github.com/lijianqiao/datamerge/pkg/readers"
)

func csvFile(name, content string) readers.File {
	return readers.File{
		Name: name,
		Size: int64(len(content)),
		Data: []byte(content),
	}
}

func newTestWorkbench() *Workbench {
	return New(DefaultConfig(), nil)
}

func TestProcess_EndToEnd(t *testing.T) {
	w := newTestWorkbench()
	session := &Session{
		Files: []readers.File{
			csvFile("people.csv", "Name,Age,City\nAlice,30,Oslo\nBob,25,Riga\n"),
			csvFile("more.csv", "name , AGE\nCarol,41\nDave,NULL\nEve,19\n"),
		},
	}

	result, err := w.Process(context.Background(), session, nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	// Пересечение по нормализованным именам: name и age
	if got := result.Table.ColumnCount(); got != 2 {
		t.Errorf("column count = %d, want 2", got)
	}
	if got := result.Table.RowCount(); got != 5 {
		t.Errorf("row count = %d, want 5", got)
	}
	if result.FromCache {
		t.Error("first run must not come from cache")
	}
	if result.MergeStats.TablesIn != 2 || result.MergeStats.RowsIn != 5 {
		t.Errorf("unexpected merge stats: %+v", result.MergeStats)
	}

	// city не попала в пересечение
	dropped := result.MergeStats.DroppedColumns["people"]
	if len(dropped) != 1 || dropped[0] != "city" {
		t.Errorf("dropped columns = %v, want [city]", dropped)
	}
}

func TestProcess_CacheHit(t *testing.T) {
	w := newTestWorkbench()
	session := &Session{
		Files: []readers.File{
			csvFile("a.csv", "x,y\n1,2\n"),
			csvFile("b.csv", "x,y\n3,4\n"),
		},
	}

	first, err := w.Process(context.Background(), session, nil)
	if err != nil {
		t.Fatalf("first Process failed: %v", err)
	}
	second, err := w.Process(context.Background(), session, nil)
	if err != nil {
		t.Fatalf("second Process failed: %v", err)
	}

	if first.FromCache {
		t.Error("first run must not come from cache")
	}
	if !second.FromCache {
		t.Error("second run must come from cache")
	}
	if second.Table != first.Table {
		t.Error("cached run must return the same table")
	}

	// Изменение флагов инвалидирует ключ
	session.Deduplicate = true
	third, err := w.Process(context.Background(), session, nil)
	if err != nil {
		t.Fatalf("third Process failed: %v", err)
	}
	if third.FromCache {
		t.Error("changed flags must force a recompute")
	}
}

func TestProcess_CleaningSteps(t *testing.T) {
	w := newTestWorkbench()
	session := &Session{
		Files: []readers.File{
			csvFile("a.csv", "x,y\n  1 ,2\n1,2\n,\n"),
		},
		Clean:       true,
		Deduplicate: true,
	}

	var messages []string
	progress := func(fraction float64, message string) {
		messages = append(messages, message)
	}

	result, err := w.Process(context.Background(), session, progress)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	// Очистка убирает пустую строку и пробелы, дедупликация - дубликат
	if got := result.Table.RowCount(); got != 1 {
		t.Errorf("row count = %d, want 1", got)
	}
	if got := len(result.PipelineStats.Steps); got != 2 {
		t.Fatalf("pipeline steps = %d, want 2", got)
	}
	if result.PipelineStats.Steps[0].Name != "clean" || result.PipelineStats.Steps[1].Name != "deduplicate" {
		t.Errorf("unexpected step order: %+v", result.PipelineStats.Steps)
	}
	if len(messages) != 2 {
		t.Errorf("progress called %d times, want 2", len(messages))
	}
}

func TestProcess_CustomNullMarkers(t *testing.T) {
	config := DefaultConfig()
	config.NullMarkers = []string{"", "-"}
	w := New(config, nil)

	session := &Session{
		Files: []readers.File{
			csvFile("a.csv", "x,y\n-,-\n1,2\n"),
		},
		Clean: true,
	}

	result, err := w.Process(context.Background(), session, nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	// "-" читается как null, полностью пустая строка удаляется очисткой
	if got := result.Table.RowCount(); got != 1 {
		t.Errorf("row count = %d, want 1", got)
	}
}

func TestProcess_NoFiles(t *testing.T) {
	w := newTestWorkbench()

	_, err := w.Process(context.Background(), &Session{}, nil)

	var emptyErr *merge.EmptyInputError
	if !errors.As(err, &emptyErr) {
		t.Errorf("expected EmptyInputError, got %v", err)
	}
}

func TestProcess_InvalidFile(t *testing.T) {
	w := newTestWorkbench()
	session := &Session{
		Files: []readers.File{
			csvFile("a.csv", "x\n1\n"),
			csvFile("report.pdf", "%PDF-1.4"),
		},
	}

	_, err := w.Process(context.Background(), session, nil)

	var invalidErr *InvalidFilesError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidFilesError, got %v", err)
	}
	if len(invalidErr.Results) != 2 {
		t.Errorf("results = %d, want 2 (all files)", len(invalidErr.Results))
	}
	if !strings.Contains(err.Error(), "report.pdf") {
		t.Errorf("error must name the offending file: %v", err)
	}
}

func TestProcess_SourceColumn(t *testing.T) {
	w := newTestWorkbench()
	session := &Session{
		Files: []readers.File{
			csvFile("a.csv", "x\n1\n"),
			csvFile("b.csv", "x\n2\n"),
		},
		SourceColumn: "source",
	}

	result, err := w.Process(context.Background(), session, nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	idx := result.Table.ColumnIndex("source")
	if idx < 0 {
		t.Fatal("source column missing")
	}
	if got := result.Table.Rows[0][idx].Raw; got != "a" {
		t.Errorf("source of first row = %q, want %q", got, "a")
	}
	if got := result.Table.Rows[1][idx].Raw; got != "b" {
		t.Errorf("source of second row = %q, want %q", got, "b")
	}
}

func TestExport_RoundTrip(t *testing.T) {
	w := newTestWorkbench()
	session := &Session{
		Files: []readers.File{
			csvFile("a.csv", "name,age,city\nAlice,30,Oslo\n"),
		},
		SelectedColumns: []string{"age", "name"},
	}

	processed, err := w.Process(context.Background(), session, nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	exported, err := w.Export(session, processed.Table)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if exported.MIME != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected MIME: %s", exported.MIME)
	}
	if !strings.HasPrefix(exported.Filename, "merged_data_") || !strings.HasSuffix(exported.Filename, ".xlsx") {
		t.Errorf("unexpected filename: %s", exported.Filename)
	}
	if exported.Summary.RowCount != 1 || exported.Summary.ColumnCount != 2 {
		t.Errorf("unexpected summary: %+v", exported.Summary)
	}

	f, err := excelize.OpenReader(bytes.NewReader(exported.Data))
	if err != nil {
		t.Fatalf("exported data is not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("workbook rows = %d, want 2", len(rows))
	}
	// Проекция сохраняет запрошенный порядок колонок
	if rows[0][0] != "age" || rows[0][1] != "name" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "30" || rows[1][1] != "Alice" {
		t.Errorf("unexpected data row: %v", rows[1])
	}
}

func TestExport_UnknownColumn(t *testing.T) {
	w := newTestWorkbench()
	session := &Session{
		Files: []readers.File{
			csvFile("a.csv", "x\n1\n"),
		},
		SelectedColumns: []string{"missing"},
	}

	processed, err := w.Process(context.Background(), session, nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if _, err := w.Export(session, processed.Table); err == nil {
		t.Fatal("expected export validation error")
	}
}

func TestSessionFingerprint(t *testing.T) {
	files := []readers.File{
		csvFile("a.csv", "x\n1\n"),
		csvFile("b.csv", "x\n2\n"),
	}

	base := (&Session{Files: files}).Fingerprint()

	variants := map[string]string{
		"clean flag":    (&Session{Files: files, Clean: true}).Fingerprint(),
		"dedup flag":    (&Session{Files: files, Deduplicate: true}).Fingerprint(),
		"source column": (&Session{Files: files, SourceColumn: "src"}).Fingerprint(),
		"file order":    (&Session{Files: []readers.File{files[1], files[0]}}).Fingerprint(),
	}

	for name, fp := range variants {
		if fp == base {
			t.Errorf("%s: fingerprint must differ from base", name)
		}
	}

	// Выбор колонок экспорта на отпечаток не влияет
	same := (&Session{Files: files, SelectedColumns: []string{"x"}}).Fingerprint()
	if same != base {
		t.Error("selected columns must not affect the fingerprint")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("MERGE_SHEET", "Result")

	content := `
max_file_size_mb: 50
steps:
  - clean
  - deduplicate
merge:
  source_column: origin
output:
  sheet: ${MERGE_SHEET}
  compression: true
cache:
  capacity: 4
audit:
  enabled: true
  format: json
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.MaxFileSizeMB != 50 {
		t.Errorf("MaxFileSizeMB = %d, want 50", config.MaxFileSizeMB)
	}
	if config.Output.Sheet != "Result" {
		t.Errorf("env expansion failed: sheet = %q", config.Output.Sheet)
	}
	if !config.Output.Compression {
		t.Error("compression flag lost")
	}
	// Незаданный уровень сжатия берется из умолчаний
	if config.Output.CompressionLevel != 3 {
		t.Errorf("CompressionLevel = %d, want default 3", config.Output.CompressionLevel)
	}

	session := config.NewSession()
	if !session.Clean || !session.Deduplicate {
		t.Error("steps from config must set session flags")
	}
	if session.SourceColumn != "origin" {
		t.Errorf("SourceColumn = %q, want origin", session.SourceColumn)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown step", "steps: [vacuum]"},
		{"bad compression level", "output:\n  compression_level: 99"},
		{"bad audit format", "audit:\n  format: xml"},
		{"zero cache capacity", "cache:\n  capacity: 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
