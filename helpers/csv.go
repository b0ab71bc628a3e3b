package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chartly-org/chartly/engine"
)

// ============================================================================
// CSV HELPER — Parses CSV bytes into an engine.Dataset
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, S3, Sheets). This
// helper converts the raw bytes into columns: values that parse as numbers
// become numeric cells, empty fields become missing, everything else stays a
// string for the cleaning engine to judge later.
// ============================================================================

// ParseCSVDataset parses CSV bytes into a column-oriented Dataset. The first
// row supplies column names.
func ParseCSVDataset(data []byte) (*engine.Dataset, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	cells := make([][]engine.Cell, len(headers))
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		for i := range headers {
			var val string
			if i < len(row) {
				val = strings.TrimSpace(row[i])
			}
			cells[i] = append(cells[i], cellFromCSV(val))
		}
	}

	cols := make([]engine.Column, len(headers))
	for i, name := range headers {
		cols[i] = engine.Column{Name: name, Cells: cells[i]}
	}
	return engine.NewDataset(cols)
}

// cellFromCSV infers a cell from one CSV field.
func cellFromCSV(val string) engine.Cell {
	if val == "" {
		return engine.MissingCell()
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return engine.NumberCell(f)
	}
	return engine.StringCell(val)
}
