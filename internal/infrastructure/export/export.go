package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
)

// Format selects the export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnknownFormat indicates an unsupported export format
var ErrUnknownFormat = errors.New("export: unknown format")

// ParseFormat converts a user-supplied string into a Format
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Table is a header row plus data rows, built client-side from the
// in-memory filtered list the admin screen is showing. The export always
// reflects exactly what the screen shows, filters included.
type Table struct {
	Name    string // sheet name for XLSX output
	Headers []string
	Rows    [][]string
}

// Write encodes the table in the requested format
func Write(w io.Writer, format Format, table *Table) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, table)
	case FormatXLSX:
		return writeXLSX(w, table)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// writeCSV encodes the table as RFC 4180 CSV
func writeCSV(w io.Writer, table *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Headers); err != nil {
		return fmt.Errorf("export: failed to write CSV header: %w", err)
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeXLSX encodes the table as a single-sheet workbook
func writeXLSX(w io.Writer, table *Table) error {
	file := xlsx.NewFile()

	name := table.Name
	if name == "" {
		name = "Export"
	}
	sheet, err := file.AddSheet(name)
	if err != nil {
		return fmt.Errorf("export: failed to create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range table.Headers {
		headerRow.AddCell().SetValue(h)
	}
	for _, row := range table.Rows {
		dataRow := sheet.AddRow()
		for _, cell := range row {
			dataRow.AddCell().SetValue(cell)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("export: failed to write workbook: %w", err)
	}
	return nil
}
