package table

import (
	"fmt"
)

// ColumnKind is the declared kind of a column, fixed once at load time.
// The summarizer consumes the tag and never re-infers types.
type ColumnKind string

const (
	KindNumeric ColumnKind = "numeric"
	KindText    ColumnKind = "text"
	KindOther   ColumnKind = "other"
)

// ValueType defines the storage type for a single cell
type ValueType string

const (
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeText    ValueType = "text"
	ValueTypeMissing ValueType = "missing"
)

// Value represents a typed cell value
type Value struct {
	Type       ValueType `json:"type"`
	NumericVal *float64  `json:"numeric_val,omitempty"`
	TextVal    *string   `json:"text_val,omitempty"`
	IsMissing  bool      `json:"is_missing"`
}

// NewNumericValue creates a numeric cell
func NewNumericValue(n float64) Value {
	return Value{Type: ValueTypeNumeric, NumericVal: &n}
}

// NewTextValue creates a text cell; the empty string is treated as missing
func NewTextValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeText, TextVal: &s}
}

// NewMissingValue creates a missing cell
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing, IsMissing: true}
}

// IsNumeric returns true if the cell holds a valid number
func (v Value) IsNumeric() bool {
	return v.Type == ValueTypeNumeric && v.NumericVal != nil
}

// IsText returns true if the cell holds a valid string
func (v Value) IsText() bool {
	return v.Type == ValueTypeText && v.TextVal != nil
}

// AsFloat64 returns the numeric payload, or 0 if not numeric
func (v Value) AsFloat64() float64 {
	if v.NumericVal != nil {
		return *v.NumericVal
	}
	return 0.0
}

// AsString returns the text payload, or empty string if not text
func (v Value) AsString() string {
	if v.TextVal != nil {
		return *v.TextVal
	}
	return ""
}

// Display renders the cell for previews
func (v Value) Display() string {
	switch {
	case v.IsMissing:
		return ""
	case v.IsNumeric():
		return trimFloat(*v.NumericVal)
	case v.IsText():
		return *v.TextVal
	}
	return ""
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// Column is an ordered sequence of cells with a name and a declared kind
type Column struct {
	Name  string     `json:"name"`
	Kind  ColumnKind `json:"kind"`
	Cells []Value    `json:"cells"`
}

// NonNullCount returns the number of non-missing cells
func (c Column) NonNullCount() int {
	n := 0
	for _, cell := range c.Cells {
		if !cell.IsMissing {
			n++
		}
	}
	return n
}

// NullCount returns the number of missing cells
func (c Column) NullCount() int {
	return len(c.Cells) - c.NonNullCount()
}

// Floats returns the non-missing cells as float64s, in row order
func (c Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.IsNumeric() {
			out = append(out, *cell.NumericVal)
		}
	}
	return out
}

// Table is a rectangular dataset: named columns of equal length.
// Immutable after construction; a comparison session replaces it wholesale.
type Table struct {
	Source  string   `json:"source"`
	Columns []Column `json:"columns"`
	rows    int
}

// New builds a table from columns, enforcing rectangularity
func New(source string, columns []Column) (*Table, error) {
	rows := 0
	for i, col := range columns {
		if i == 0 {
			rows = len(col.Cells)
			continue
		}
		if len(col.Cells) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Cells), rows)
		}
	}
	return &Table{Source: source, Columns: columns, rows: rows}, nil
}

// NumRows returns the row count
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.rows
}

// NumColumns returns the column count
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// Header returns the column names in order
func (t *Table) Header() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Row materializes one row as display strings, for previews
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.Columns))
	for j, col := range t.Columns {
		if i >= 0 && i < len(col.Cells) {
			out[j] = col.Cells[i].Display()
		}
	}
	return out
}

// Column looks a column up by name
func (t *Table) Column(name string) (Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}
