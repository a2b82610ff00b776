package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lijianqiao/datamerge/pkg/core/table"
)

// DefaultNullMarkers - строковые значения, которые при чтении
// интерпретируются как null
var DefaultNullMarkers = []string{"", "NULL", "null", "NA", "na"}

// File представляет загруженный файл: имя, размер, содержимое и
// стабильный идентификатор (для кеширования)
type File struct {
	Name  string
	Size  int64
	Token string
	Data  []byte
}

// Ext возвращает расширение файла в нижнем регистре
func (f File) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// Label возвращает имя файла без расширения — метка источника
func (f File) Label() string {
	base := filepath.Base(f.Name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Reader читает файл одного формата в список таблиц
type Reader interface {
	// Read декодирует содержимое файла. Каждый лист/таблица источника
	// возвращается отдельной таблицей, порядок сохраняется.
	Read(file File) ([]*table.Table, error)
}

// UnsupportedFormatError возникает для нераспознанного расширения файла
type UnsupportedFormatError struct {
	Filename string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Filename)
}

// ReadError возникает при ошибке декодирования файла
type ReadError struct {
	Filename string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Filename, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Registry сопоставляет расширение файла с читателем.
// Встроенные форматы регистрируются на старте, динамической загрузки нет.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry создает реестр со встроенными читателями
// и null-маркерами по умолчанию
func NewRegistry() *Registry {
	return NewRegistryWithNullMarkers(DefaultNullMarkers)
}

// NewRegistryWithNullMarkers создает реестр со встроенными читателями
// и заданным набором null-маркеров
func NewRegistryWithNullMarkers(markers []string) *Registry {
	r := &Registry{
		readers: make(map[string]Reader),
	}

	csv := NewCSVReader(markers)
	excel := NewExcelReader(markers)
	sqlite := NewSQLiteReader()

	r.Register(".csv", csv)
	r.Register(".xlsx", excel)
	r.Register(".xls", excel)
	r.Register(".sqlite", sqlite)
	r.Register(".db", sqlite)

	return r
}

// Register регистрирует читателя для расширения
func (r *Registry) Register(ext string, reader Reader) {
	r.readers[strings.ToLower(ext)] = reader
}

// SupportedFormats возвращает зарегистрированные расширения
func (r *Registry) SupportedFormats() []string {
	formats := make([]string, 0, len(r.readers))
	for ext := range r.readers {
		formats = append(formats, ext)
	}
	return formats
}

// Supports проверяет, распознается ли расширение файла
func (r *Registry) Supports(filename string) bool {
	_, ok := r.readers[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Read определяет формат по расширению и декодирует файл.
// Возвращает UnsupportedFormatError для неизвестного расширения.
func (r *Registry) Read(file File) ([]*table.Table, error) {
	reader, ok := r.readers[file.Ext()]
	if !ok {
		return nil, &UnsupportedFormatError{Filename: file.Name}
	}
	return reader.Read(file)
}

// DefaultRegistry - реестр со встроенными форматами
var DefaultRegistry = NewRegistry()

// Read читает файл через реестр по умолчанию
func Read(file File) ([]*table.Table, error) {
	return DefaultRegistry.Read(file)
}
