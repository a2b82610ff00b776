package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(NewWriterAppender(&buf, false))

	logger.LogSuccess(OpMerge, "merged", 5, 4, 10*time.Millisecond)

	line := buf.String()
	if !strings.Contains(line, "[success] merge") {
		t.Errorf("unexpected log line: %q", line)
	}
	if !strings.Contains(line, "rows=5→4") {
		t.Errorf("row counts missing: %q", line)
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(NewWriterAppender(&buf, true))

	logger.LogFailure(OpRead, "broken.csv", errors.New("bad header"))

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}
	if entry.Operation != OpRead || entry.Status != StatusFailure {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Error != "bad header" {
		t.Errorf("error text = %q", entry.Error)
	}
	if entry.Timestamp.IsZero() {
		t.Error("timestamp must be set automatically")
	}
}

func TestFileAppender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.log")

	appender, err := NewFileAppender(path, false)
	if err != nil {
		t.Fatalf("NewFileAppender failed: %v", err)
	}

	logger := NewLogger(appender)
	logger.LogSuccess(OpExport, "merged", 4, 4, time.Millisecond)

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "export") {
		t.Errorf("unexpected file contents: %q", data)
	}
}

func TestNop(t *testing.T) {
	// Логгер без appenders не паникует и не пишет
	logger := Nop()
	logger.LogSuccess(OpMerge, "x", 1, 1, 0)
	if err := logger.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
