package audit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Operation - тип операции
type Operation string

const (
	OpValidate Operation = "validate"
	OpRead     Operation = "read"
	OpMerge    Operation = "merge"
	OpPipeline Operation = "pipeline"
	OpExport   Operation = "export"
	OpCacheHit Operation = "cache_hit"
)

// Status - статус выполнения операции
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Entry - запись в audit логе
type Entry struct {
	// Timestamp - время операции
	Timestamp time.Time `json:"timestamp"`

	// Operation - тип операции
	Operation Operation `json:"operation"`

	// Status - статус выполнения
	Status Status `json:"status"`

	// Resource - ресурс (файл, таблица)
	Resource string `json:"resource,omitempty"`

	// RowsIn / RowsOut - строки на входе и выходе операции
	RowsIn  int `json:"rows_in,omitempty"`
	RowsOut int `json:"rows_out,omitempty"`

	// Duration - длительность операции
	Duration time.Duration `json:"duration,omitempty"`

	// Error - текст ошибки при Status == failure
	Error string `json:"error,omitempty"`
}

// FormatText - текстовое представление записи
func (e *Entry) FormatText() string {
	line := fmt.Sprintf("%s [%s] %s", e.Timestamp.Format(time.RFC3339), e.Status, e.Operation)
	if e.Resource != "" {
		line += " " + e.Resource
	}
	if e.RowsIn > 0 || e.RowsOut > 0 {
		line += fmt.Sprintf(" rows=%d→%d", e.RowsIn, e.RowsOut)
	}
	if e.Duration > 0 {
		line += fmt.Sprintf(" duration=%s", e.Duration)
	}
	if e.Error != "" {
		line += " error=" + e.Error
	}
	return line
}

// FormatJSON - JSON представление записи
func (e *Entry) FormatJSON() ([]byte, error) {
	return json.Marshal(e)
}
