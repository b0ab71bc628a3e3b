package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ============================================================================
// ENGINE TYPES — Columnar Dataset Model
// ============================================================================
// A Dataset is an ordered collection of named columns; each column is an
// ordered sequence of scalar cells. Cells are heterogeneous before cleaning:
// the same column may hold numbers, strings, bools, and missing values.
//
// Dependency: the data model has ZERO external dependencies.
// ============================================================================

// ============================================================================
// CELL — One scalar value
// ============================================================================

// CellKind tags the payload of a Cell.
type CellKind uint8

const (
	KindMissing CellKind = iota
	KindNumber
	KindString
	KindBool
)

// Cell is a single scalar: a number, a string, a bool, or missing.
// JSON null decodes to missing. Sentinel strings ("na", "null", …) stay
// strings until the cleaning engine normalizes them.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
	Bool bool
}

// NumberCell creates a numeric cell.
func NumberCell(v float64) Cell { return Cell{Kind: KindNumber, Num: v} }

// StringCell creates a string cell.
func StringCell(s string) Cell { return Cell{Kind: KindString, Str: s} }

// BoolCell creates a boolean cell.
func BoolCell(b bool) Cell { return Cell{Kind: KindBool, Bool: b} }

// MissingCell creates a missing cell.
func MissingCell() Cell { return Cell{Kind: KindMissing} }

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool { return c.Kind == KindMissing }

// Label renders the cell as display text. Missing cells render empty.
func (c Cell) Label() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindString:
		return c.Str
	case KindBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

// ============================================================================
// COLUMN — Named ordered sequence of cells
// ============================================================================

// Column is a named ordered sequence of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.Cells) }

// MissingCount returns how many cells are missing.
func (c *Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.IsMissing() {
			n++
		}
	}
	return n
}

// Numeric reports whether the column is already numeric: every non-missing
// cell is a number and at least one such cell exists.
func (c *Column) Numeric() bool {
	seen := false
	for _, cell := range c.Cells {
		if cell.IsMissing() {
			continue
		}
		if cell.Kind != KindNumber {
			return false
		}
		seen = true
	}
	return seen
}

// Categorical reports whether the column holds non-numeric data: at least one
// non-missing cell exists and the column is not numeric.
func (c *Column) Categorical() bool {
	seen := false
	for _, cell := range c.Cells {
		if !cell.IsMissing() {
			seen = true
			break
		}
	}
	return seen && !c.Numeric()
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() Column {
	cells := make([]Cell, len(c.Cells))
	copy(cells, c.Cells)
	return Column{Name: c.Name, Cells: cells}
}

// ============================================================================
// DATASET — Ordered named columns of equal length
// ============================================================================

// Dataset is an ordered collection of equal-length named columns.
// The engine never mutates a caller's Dataset — cleaning works on Clone().
type Dataset struct {
	cols  []Column
	index map[string]int
}

// NewDataset builds a Dataset from columns, enforcing unique names and equal
// lengths.
func NewDataset(cols []Column) (*Dataset, error) {
	d := &Dataset{index: make(map[string]int, len(cols))}
	for _, col := range cols {
		if _, dup := d.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", col.Name)
		}
		if len(d.cols) > 0 && col.Len() != d.cols[0].Len() {
			return nil, fmt.Errorf("column %q has %d values, expected %d",
				col.Name, col.Len(), d.cols[0].Len())
		}
		d.index[col.Name] = len(d.cols)
		d.cols = append(d.cols, col)
	}
	return d, nil
}

// ParseDatasetJSON decodes a column-oriented JSON object
// ({"col": [v1, v2, …], …}) into a Dataset, preserving column order.
func ParseDatasetJSON(data []byte) (*Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid dataset JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("dataset JSON must be a column-oriented object")
	}

	var cols []Column
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid dataset JSON: %w", err)
		}
		name := keyTok.(string)

		var raw []interface{}
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("column %q: expected an array of values: %w", name, err)
		}

		cells := make([]Cell, len(raw))
		for i, v := range raw {
			cells[i] = cellFromJSON(v)
		}
		cols = append(cols, Column{Name: name, Cells: cells})
	}

	return NewDataset(cols)
}

func cellFromJSON(v interface{}) Cell {
	switch val := v.(type) {
	case nil:
		return MissingCell()
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return NumberCell(f)
		}
		return StringCell(val.String())
	case string:
		return StringCell(val)
	case bool:
		return BoolCell(val)
	default:
		return StringCell(fmt.Sprintf("%v", val))
	}
}

// MarshalJSON encodes the Dataset back to column-oriented JSON, preserving
// column order.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range d.cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(col.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.WriteByte('[')
		for j, cell := range col.Cells {
			if j > 0 {
				buf.WriteByte(',')
			}
			var raw []byte
			switch cell.Kind {
			case KindNumber:
				raw = []byte(strconv.FormatFloat(cell.Num, 'f', -1, 64))
			case KindString:
				raw, err = json.Marshal(cell.Str)
				if err != nil {
					return nil, err
				}
			case KindBool:
				raw = []byte(strconv.FormatBool(cell.Bool))
			default:
				raw = []byte("null")
			}
			buf.Write(raw)
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Rows returns the number of rows (cells per column).
func (d *Dataset) Rows() int {
	if len(d.cols) == 0 {
		return 0
	}
	return d.cols[0].Len()
}

// ColumnNames returns column names in dataset order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.cols))
	for i, col := range d.cols {
		names[i] = col.Name
	}
	return names
}

// Column returns the named column, or false if absent.
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return &d.cols[i], true
}

// Has reports whether the named column exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// SetColumn replaces an existing column or appends a new one.
func (d *Dataset) SetColumn(col Column) {
	if i, ok := d.index[col.Name]; ok {
		d.cols[i] = col
		return
	}
	d.index[col.Name] = len(d.cols)
	d.cols = append(d.cols, col)
}

// Clone returns a deep copy — the private working copy cleaning mutates.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		cols:  make([]Column, len(d.cols)),
		index: make(map[string]int, len(d.index)),
	}
	for i, col := range d.cols {
		out.cols[i] = col.Clone()
	}
	for k, v := range d.index {
		out.index[k] = v
	}
	return out
}

// Number returns the numeric value at (column, row) and whether one is
// present. Part of the backend.Table accessor contract.
func (d *Dataset) Number(column string, row int) (float64, bool) {
	col, ok := d.Column(column)
	if !ok || row < 0 || row >= col.Len() {
		return 0, false
	}
	cell := col.Cells[row]
	if cell.Kind != KindNumber {
		return 0, false
	}
	return cell.Num, true
}

// Label returns the display text at (column, row). Part of the backend.Table
// accessor contract.
func (d *Dataset) Label(column string, row int) string {
	col, ok := d.Column(column)
	if !ok || row < 0 || row >= col.Len() {
		return ""
	}
	return col.Cells[row].Label()
}

// ============================================================================
// ROLE MAPPING + VALIDATION RESULT
// ============================================================================

// RoleMapping binds semantic roles ("x", "value", "source", …) to column
// names. The key set is open — chart kinds read the roles they care about and
// ignore the rest.
type RoleMapping map[string]string

// Clone returns a copy of the mapping.
func (m RoleMapping) Clone() RoleMapping {
	out := make(RoleMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ValidationResult reports whether a (kind, mapping, dataset) triple is
// structurally renderable. Valid is true iff Errors is empty; warnings never
// affect validity.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
