// Package xlsx extracts spreadsheet contents as CSV text.
package xlsx

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles XLSX workbooks.
type Extractor struct{}

// New creates a new XLSX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatXLSX}
}

// Extract renders every sheet, in workbook order, as
//
//	--- <sheet name> ---
//	<csv rows>
//
// with a blank line after each block.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*domain.Extraction, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w: %w", domain.ErrInvalidInput, err)
	}
	defer f.Close()

	var out strings.Builder
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		block, err := sheetCSV(rows)
		if err != nil {
			return nil, fmt.Errorf("encode sheet %q: %w", sheet, err)
		}
		fmt.Fprintf(&out, "--- %s ---\n%s\n\n", sheet, block)
	}

	return &domain.Extraction{
		Text:   out.String(),
		Method: domain.MethodSpreadsheet,
	}, nil
}

// sheetCSV encodes rows as CSV. Rows are padded to the sheet's widest row
// so every line has the same number of fields.
func sheetCSV(rows [][]string) (string, error) {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		if err := w.Write(padded); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
