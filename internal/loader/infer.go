package loader

import (
	"math"
	"strconv"

	"comparador/domain/table"
)

// coerceCell converts one raw string cell into a typed value. Blank cells
// are nulls; everything that parses as a finite number is numeric.
func coerceCell(raw string) table.Value {
	if raw == "" {
		return table.NewMissingValue()
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		// "NaN" and "Inf" strings stay textual: a numeric column must
		// hold real samples.
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return table.NewNumericValue(v)
		}
	}
	return table.NewTextValue(raw)
}

// inferKind fixes the column kind from its coerced cells: numeric when every
// non-null cell is a number and at least one exists, text when at least one
// non-null cell exists, other when the column is entirely null. A single
// textual cell demotes the whole column to text, the way a dataframe load
// would fall back to strings.
func inferKind(cells []table.Value) table.ColumnKind {
	nonNull := 0
	numeric := 0
	for _, c := range cells {
		if c.IsMissing {
			continue
		}
		nonNull++
		if c.IsNumeric() {
			numeric++
		}
	}
	switch {
	case nonNull == 0:
		return table.KindOther
	case numeric == nonNull:
		return table.KindNumeric
	default:
		return table.KindText
	}
}

// retype rewrites the cells of a text column so every cell is textual.
// A column with 99 numbers and one label is a text column; keeping the 99
// cells numeric would leak them into the numeric statistics.
func retype(cells []table.Value, kind table.ColumnKind) []table.Value {
	if kind != table.KindText {
		return cells
	}
	out := make([]table.Value, len(cells))
	for i, c := range cells {
		if c.IsNumeric() {
			out[i] = table.NewTextValue(c.Display())
			continue
		}
		out[i] = c
	}
	return out
}
