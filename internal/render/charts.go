package render

import (
	"fmt"
	"io"
	"math"
	"sort"

	dtable "comparador/domain/table"
	"comparador/internal/errors"
	"comparador/internal/summary"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const histogramBins = 12

// CategoryChart writes an HTML bar chart of a text column's most frequent
// values to w.
func CategoryChart(w io.Writer, tab *dtable.Table, columnName string, limit int) error {
	col, ok := tab.Column(columnName)
	if !ok {
		return errors.NotFound(fmt.Sprintf("column %q", columnName))
	}
	if col.Kind != dtable.KindText {
		return errors.InvalidInput(fmt.Sprintf("column %q is not a text column", columnName))
	}

	top := summary.TopCounts(col, limit)
	labels := make([]string, len(top))
	values := make([]opts.BarData, len(top))
	for i, vf := range top {
		labels[i] = vf.Value
		values[i] = opts.BarData{Value: vf.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Valores más frecuentes: %s", col.Name),
			Subtitle: tab.Source,
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "520px"}),
	)
	bar.SetXAxis(labels).AddSeries("conteo", values)
	return bar.Render(w)
}

// HistogramChart writes an HTML histogram of a numeric column to w.
func HistogramChart(w io.Writer, tab *dtable.Table, columnName string) error {
	col, ok := tab.Column(columnName)
	if !ok {
		return errors.NotFound(fmt.Sprintf("column %q", columnName))
	}
	if col.Kind != dtable.KindNumeric {
		return errors.InvalidInput(fmt.Sprintf("column %q is not a numeric column", columnName))
	}

	labels, counts := histogram(col.Floats(), histogramBins)
	values := make([]opts.BarData, len(counts))
	for i, c := range counts {
		values[i] = opts.BarData{Value: c}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Distribución: %s", col.Name),
			Subtitle: tab.Source,
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "520px"}),
	)
	bar.SetXAxis(labels).AddSeries("conteo", values)
	return bar.Render(w)
}

// histogram buckets the data into equal-width bins between min and max.
// Degenerate inputs (empty, or a single repeated value) collapse to one bin.
func histogram(data []float64, bins int) ([]string, []int) {
	if len(data) == 0 {
		return nil, nil
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	min, max := sorted[0], sorted[len(sorted)-1]

	if min == max || bins < 2 {
		return []string{fmt.Sprintf("%g", min)}, []int{len(data)}
	}

	width := (max - min) / float64(bins)
	counts := make([]int, bins)
	for _, v := range data {
		idx := int(math.Floor((v - min) / width))
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	labels := make([]string, bins)
	for i := range labels {
		lo := min + float64(i)*width
		hi := lo + width
		labels[i] = fmt.Sprintf("%.4g-%.4g", lo, hi)
	}
	return labels, counts
}
