// Package render turns summaries into presentable output: plain-text tables
// for the CLI and the web UI's text export, and chart pages for the browser.
package render

import (
	"fmt"
	"math"
	"strings"

	dtable "comparador/domain/table"
	"comparador/internal/summary"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newWriter(header table.Row) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(header)
	t.SetStyle(table.StyleLight)
	return t
}

func num(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", f)
}

// AggregateTable renders the whole-dataset counts
func AggregateTable(agg summary.AggregateSummary) string {
	t := newWriter(table.Row{"Filas", "Columnas", "Nulos totales"})
	t.AppendRow(table.Row{agg.Rows, agg.Columns, agg.TotalNulls})
	return t.Render()
}

// NumericTable renders the numeric-column summaries
func NumericTable(records []summary.NumericSummary) string {
	t := newWriter(table.Row{"Columna", "count", "mean", "std", "min", "median", "max", "skew", "kurt"})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.Column, r.Count, num(r.Mean), num(r.Std),
			num(r.Min), num(r.Median), num(r.Max),
			num(r.Skewness), num(r.Kurtosis),
		})
	}
	return t.Render()
}

// CategoricalTable renders the repeated-text column summaries
func CategoricalTable(records []summary.CategoricalSummary) string {
	t := newWriter(table.Row{"Columna", "Categorías únicas", "Top 5 valores"})
	for _, r := range records {
		t.AppendRow(table.Row{r.Column, r.UniqueCount, r.TopValues})
	}
	return t.Render()
}

// UniqueTextTable renders the high-cardinality text column summaries
func UniqueTextTable(records []summary.UniqueTextSummary) string {
	t := newWriter(table.Row{"Columna", "Valores no nulos", "Nulos", "Valores únicos"})
	for _, r := range records {
		t.AppendRow(table.Row{r.Column, r.NonNull, r.Nulls, r.UniqueCount})
	}
	return t.Render()
}

// ComparisonText composes the full plain-text report for one dataset:
// aggregate counts plus the three classification tables, with the sections
// the dashboard shows, in the same order.
func ComparisonText(label string, tab *dtable.Table, agg summary.AggregateSummary, cls summary.Classification) string {
	var b strings.Builder

	fmt.Fprintf(&b, "== %s (%s) ==\n\n", label, tab.Source)
	b.WriteString("Resumen general\n")
	b.WriteString(AggregateTable(agg))
	b.WriteString("\n")

	if len(cls.Numeric) > 0 {
		b.WriteString("\nColumnas numéricas\n")
		b.WriteString(NumericTable(cls.Numeric))
		b.WriteString("\n")
	}
	if len(cls.Categorical) > 0 {
		b.WriteString("\nColumnas de texto con valores repetidos (categóricas)\n")
		b.WriteString(CategoricalTable(cls.Categorical))
		b.WriteString("\n")
	}
	if len(cls.UniqueText) > 0 {
		b.WriteString("\nColumnas de texto sin valores repetidos\n")
		b.WriteString(UniqueTextTable(cls.UniqueText))
		b.WriteString("\n")
	}
	if len(cls.Unclassified) > 0 {
		fmt.Fprintf(&b, "\nColumnas sin clasificar: %s\n", strings.Join(cls.Unclassified, ", "))
	}
	return b.String()
}
