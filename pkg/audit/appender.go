package audit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Appender - интерфейс для записи audit логов
type Appender interface {
	// Append - записать audit entry
	Append(entry *Entry) error

	// Close - закрыть appender
	Close() error
}

// WriterAppender пишет записи в io.Writer (stderr, буфер в тестах)
type WriterAppender struct {
	mu         sync.Mutex
	w          io.Writer
	formatJSON bool
}

// NewWriterAppender создает appender поверх io.Writer
func NewWriterAppender(w io.Writer, formatJSON bool) *WriterAppender {
	return &WriterAppender{w: w, formatJSON: formatJSON}
}

// NewConsoleAppender создает appender на stderr в текстовом формате
func NewConsoleAppender() *WriterAppender {
	return NewWriterAppender(os.Stderr, false)
}

// Append - записать entry
func (a *WriterAppender) Append(entry *Entry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	line, err := formatEntry(entry, a.formatJSON)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.w, line)
	return err
}

// Close - для writer appender ничего не делает
func (a *WriterAppender) Close() error {
	return nil
}

// FileAppender - запись в файл
type FileAppender struct {
	mu         sync.Mutex
	file       *os.File
	formatJSON bool
}

// NewFileAppender открывает файл лога на дозапись,
// создавая директорию при необходимости
func NewFileAppender(path string, formatJSON bool) (*FileAppender, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file: %w", err)
	}

	return &FileAppender{file: file, formatJSON: formatJSON}, nil
}

// Append - записать entry в файл
func (a *FileAppender) Append(entry *Entry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	line, err := formatEntry(entry, a.formatJSON)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.file, line)
	return err
}

// Close - закрыть файл
func (a *FileAppender) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}

func formatEntry(entry *Entry, formatJSON bool) (string, error) {
	if formatJSON {
		data, err := entry.FormatJSON()
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return entry.FormatText(), nil
}
