package export

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/xuri/excelize/v2"

	"github.com/lijianqiao/datamerge/pkg/core/table"
)

// MIMEXLSX is the content type of the exported artifact.
const MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Options configures the exporter.
type Options struct {
	// Sheet is the sheet name, "Sheet1" when empty.
	Sheet string

	// Compress wraps the artifact in a zstd frame. The caller is
	// responsible for naming the file accordingly.
	Compress bool

	// CompressionLevel: 1 (fastest) - 22 (best). 3 is a good default.
	CompressionLevel int
}

// Exporter serializes a table to a single-sheet XLSX buffer.
type Exporter struct {
	options Options
}

// NewExporter creates an exporter.
func NewExporter(options Options) *Exporter {
	if options.Sheet == "" {
		options.Sheet = "Sheet1"
	}
	if options.CompressionLevel == 0 {
		options.CompressionLevel = 3
	}
	return &Exporter{options: options}
}

// Export serializes the table to an XLSX byte buffer.
//
// When columns is non-empty the table is projected to exactly those columns
// in the given order first; an absent column yields UnknownColumnError.
// Rows are written through the excelize stream writer straight from the
// table representation, one pass, no intermediate conversion.
func (e *Exporter) Export(t *table.Table, columns []string) ([]byte, error) {
	target := t
	if len(columns) > 0 {
		projected, err := t.Select(columns)
		if err != nil {
			return nil, err
		}
		target = projected
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := e.options.Sheet
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, fmt.Errorf("failed to rename sheet: %w", err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]any, target.ColumnCount())
	for i, col := range target.Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: col.Name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for rowIdx, row := range target.Rows {
		cells := make([]any, len(target.Columns))
		for col := range target.Columns {
			if col >= len(row) {
				continue
			}
			cells[col] = cellValue(row[col], target.Columns[col].Type)
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := sw.SetRow(cell, cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", rowIdx+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush stream writer: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	if e.options.Compress {
		return e.compress(buf.Bytes())
	}
	return buf.Bytes(), nil
}

// cellValue converts a table value into a native value for excelize,
// guided by the column type. Nulls become empty cells.
func cellValue(v table.Value, dt table.DataType) any {
	if v.Null {
		return nil
	}

	switch dt {
	case table.TypeInteger:
		if n, ok := v.ParseInt(); ok {
			return n
		}
	case table.TypeFloat:
		if f, ok := v.ParseFloat(); ok {
			return f
		}
	case table.TypeBoolean:
		if b, ok := v.ParseBool(); ok {
			return b
		}
	}
	return v.Raw
}

func (e *Exporter) compress(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(e.options.CompressionLevel)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer encoder.Close()

	return encoder.EncodeAll(data, nil), nil
}
