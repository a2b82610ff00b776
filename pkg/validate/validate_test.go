package validate

import (
	"strings"
	"testing"

	"github.com/lijianqiao/datamerge/pkg/readers"
)

func TestValidateFile(t *testing.T) {
	validator := NewValidator(0, nil)

	tests := []struct {
		name      string
		file      readers.File
		wantValid bool
		wantError string
	}{
		{
			name:      "valid csv",
			file:      readers.File{Name: "data.csv", Size: 100, Data: []byte("a,b\n1,2\n")},
			wantValid: true,
		},
		{
			name:      "unsupported format",
			file:      readers.File{Name: "data.parquet", Size: 100, Data: []byte("x")},
			wantValid: false,
			wantError: "unsupported file format",
		},
		{
			name:      "oversized",
			file:      readers.File{Name: "data.csv", Size: MaxFileSize + 1, Data: []byte("x")},
			wantValid: false,
			wantError: "exceeds limit",
		},
		{
			name:      "empty file",
			file:      readers.File{Name: "data.csv", Size: 0, Data: nil},
			wantValid: false,
			wantError: "file is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.ValidateFile(tt.file)
			if result.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (errors: %v)", result.Valid, tt.wantValid, result.Errors)
			}
			if tt.wantError != "" {
				found := false
				for _, e := range result.Errors {
					if strings.Contains(e, tt.wantError) {
						found = true
					}
				}
				if !found {
					t.Errorf("errors %v do not mention %q", result.Errors, tt.wantError)
				}
			}
		})
	}
}

func TestValidateFile_NearLimitWarning(t *testing.T) {
	validator := NewValidator(1000, nil)

	result := validator.ValidateFile(readers.File{Name: "big.csv", Size: 950, Data: []byte("a\n")})
	if !result.Valid {
		t.Fatalf("expected valid result, errors: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected near-limit warning")
	}
}

func TestValidateFile_Info(t *testing.T) {
	validator := NewValidator(0, nil)

	result := validator.ValidateFile(readers.File{Name: "Report.XLSX", Size: 10, Data: []byte("x")})
	if result.Info.Extension != ".xlsx" {
		t.Errorf("extension = %q, want .xlsx", result.Info.Extension)
	}
	if result.Info.Name != "Report.XLSX" || result.Info.SizeBytes != 10 {
		t.Errorf("unexpected info: %+v", result.Info)
	}
}

func TestValidateAll(t *testing.T) {
	validator := NewValidator(0, nil)

	results := validator.ValidateAll([]readers.File{
		{Name: "a.csv", Size: 5, Data: []byte("a\n1\n")},
		{Name: "b.txt", Size: 5, Data: []byte("x")},
	})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Valid || results[1].Valid {
		t.Errorf("unexpected validity: %v, %v", results[0].Valid, results[1].Valid)
	}
}
