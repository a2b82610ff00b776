package validate

import (
	"fmt"
	"strings"

	"github.com/lijianqiao/datamerge/pkg/readers"
)

// MaxFileSize - лимит размера загружаемого файла (100 MiB)
const MaxFileSize = 100 * 1024 * 1024

// FileInfo - сводка по загруженному файлу
type FileInfo struct {
	Name      string
	SizeBytes int64
	Extension string
}

// Result - результат валидации одного файла.
// Не сохраняется: потребляется слоем загрузки сразу после проверки.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
	Info     FileInfo
}

// Validator проверяет загружаемые файлы: формат, размер, содержимое
type Validator struct {
	maxSize  int64
	registry *readers.Registry
}

// NewValidator создает валидатор.
// maxSize <= 0 означает лимит по умолчанию, nil registry — реестр по умолчанию.
func NewValidator(maxSize int64, registry *readers.Registry) *Validator {
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	if registry == nil {
		registry = readers.DefaultRegistry
	}
	return &Validator{
		maxSize:  maxSize,
		registry: registry,
	}
}

// ValidateFile выполняет все проверки файла и собирает итоговый результат
func (v *Validator) ValidateFile(file readers.File) Result {
	result := Result{
		Valid: true,
		Info: FileInfo{
			Name:      file.Name,
			SizeBytes: file.Size,
			Extension: file.Ext(),
		},
	}

	if !v.registry.Supports(file.Name) {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("unsupported file format: %s (supported: %s)",
				file.Ext(), strings.Join(v.registry.SupportedFormats(), ", ")))
	}

	if file.Size > v.maxSize {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("file size exceeds limit (%dMB)", v.maxSize/1024/1024))
	} else if file.Size > v.maxSize*9/10 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("file is close to the size limit: %.2f MB", float64(file.Size)/1024/1024))
	}

	if len(file.Data) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "file is empty")
	}

	return result
}

// ValidateAll проверяет набор файлов, результаты в порядке входа
func (v *Validator) ValidateAll(files []readers.File) []Result {
	results := make([]Result, len(files))
	for i, file := range files {
		results[i] = v.ValidateFile(file)
	}
	return results
}
