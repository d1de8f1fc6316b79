package render

import (
	"bytes"
	"math"
	"strings"
	"testing"

	dtable "comparador/domain/table"
	"comparador/internal/loader"
	"comparador/internal/summary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *dtable.Table {
	t.Helper()
	csv := "estado,casos\na,1\na,2\nb,3\na,4\nb,5\n"
	tab, err := loader.Read("muestra.csv", strings.NewReader(csv))
	require.NoError(t, err)
	return tab
}

func TestAggregateTableShowsCounts(t *testing.T) {
	out := AggregateTable(summary.AggregateSummary{Rows: 5, Columns: 2, TotalNulls: 1})
	assert.Contains(t, out, "Filas")
	assert.Contains(t, out, "5")
	assert.Contains(t, out, "Nulos totales")
}

func TestNumericTableRendersNaN(t *testing.T) {
	out := NumericTable([]summary.NumericSummary{{
		Column: "x", Count: 1, Mean: 7,
		Std: math.NaN(), Min: 7, Median: 7, Max: 7,
		Skewness: math.NaN(), Kurtosis: math.NaN(),
	}})
	assert.Contains(t, out, "NaN")
	assert.Contains(t, out, "7.0000")
}

func TestComparisonTextIncludesAllSections(t *testing.T) {
	tab := sampleTable(t)
	agg := summary.Aggregate(tab)
	cls := summary.Classify(tab)

	out := ComparisonText("Local", tab, agg, cls)
	assert.Contains(t, out, "muestra.csv")
	assert.Contains(t, out, "Resumen general")
	assert.Contains(t, out, "Columnas numéricas")
	assert.Contains(t, out, "Columnas de texto con valores repetidos")
	assert.NotContains(t, out, "sin clasificar")
}

func TestCategoryChartRendersHTML(t *testing.T) {
	tab := sampleTable(t)
	var buf bytes.Buffer
	err := CategoryChart(&buf, tab, "estado", 5)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "echarts")
}

func TestCategoryChartRejectsNumericColumn(t *testing.T) {
	tab := sampleTable(t)
	var buf bytes.Buffer
	err := CategoryChart(&buf, tab, "casos", 5)
	assert.Error(t, err)
}

func TestHistogramChartRendersHTML(t *testing.T) {
	tab := sampleTable(t)
	var buf bytes.Buffer
	err := HistogramChart(&buf, tab, "casos")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "echarts")
}

func TestHistogramBuckets(t *testing.T) {
	labels, counts := histogram([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)
	require.Len(t, labels, 5)
	total := 0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 10, total)

	labels, counts = histogram([]float64{3, 3, 3}, 5)
	assert.Equal(t, []string{"3"}, labels)
	assert.Equal(t, []int{3}, counts)

	labels, counts = histogram(nil, 5)
	assert.Nil(t, labels)
	assert.Nil(t, counts)
}
