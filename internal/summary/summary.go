package summary

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"comparador/domain/table"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Share of distinct values (relative to total rows) below which a text
// column is treated as categorical rather than free-form.
const categoricalThreshold = 0.8

// How many of the most frequent values a categorical record lists.
const topValueCount = 5

// AggregateSummary holds whole-dataset counts
type AggregateSummary struct {
	Rows       int `json:"rows"`
	Columns    int `json:"columns"`
	TotalNulls int `json:"total_nulls"`
}

// NumericSummary describes one numeric column. Statistics that are undefined
// for the sample size (std for n<2, moments for tiny n, everything for an
// empty column) are NaN, matching the underlying statistics routines.
type NumericSummary struct {
	Column   string  `json:"column"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Median   float64 `json:"median"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// CategoricalSummary describes a repeated-text column
type CategoricalSummary struct {
	Column      string `json:"column"`
	UniqueCount int    `json:"unique_count"`
	TopValues   string `json:"top_values"`
}

// UniqueTextSummary describes a high-cardinality text column
type UniqueTextSummary struct {
	Column      string `json:"column"`
	NonNull     int    `json:"non_null"`
	Nulls       int    `json:"nulls"`
	UniqueCount int    `json:"unique_count"`
}

// Classification is the three-way column split plus diagnostics for
// columns that fit none of the buckets (kind "other").
type Classification struct {
	Numeric      []NumericSummary     `json:"numeric"`
	Categorical  []CategoricalSummary `json:"categorical"`
	UniqueText   []UniqueTextSummary  `json:"unique_text"`
	Unclassified []string             `json:"unclassified,omitempty"`
}

// Aggregate computes the whole-dataset summary. Pure; degenerate inputs
// yield zero counts.
func Aggregate(t *table.Table) AggregateSummary {
	agg := AggregateSummary{
		Rows:    t.NumRows(),
		Columns: t.NumColumns(),
	}
	for _, col := range t.Columns {
		agg.TotalNulls += col.NullCount()
	}
	return agg
}

// Classify splits the table's columns into numeric, categorical and
// unique-text summaries, each column independently, consuming the kind tag
// fixed at load time. Columns of kind "other" are reported in Unclassified
// instead of being silently dropped.
func Classify(t *table.Table) Classification {
	var c Classification
	for _, col := range t.Columns {
		switch col.Kind {
		case table.KindNumeric:
			c.Numeric = append(c.Numeric, summarizeNumeric(col))
		case table.KindText:
			cat, uniq, isCategorical := summarizeText(col)
			if isCategorical {
				c.Categorical = append(c.Categorical, cat)
			} else {
				c.UniqueText = append(c.UniqueText, uniq)
			}
		default:
			c.Unclassified = append(c.Unclassified, col.Name)
		}
	}
	return c
}

func summarizeNumeric(col table.Column) NumericSummary {
	data := col.Floats()
	s := NumericSummary{
		Column:   col.Name,
		Count:    len(data),
		Mean:     math.NaN(),
		Std:      math.NaN(),
		Min:      math.NaN(),
		Median:   math.NaN(),
		Max:      math.NaN(),
		Skewness: math.NaN(),
		Kurtosis: math.NaN(),
	}
	if len(data) == 0 {
		return s
	}

	s.Mean, _ = stats.Mean(data)
	s.Min, _ = stats.Min(data)
	s.Max, _ = stats.Max(data)
	s.Median, _ = stats.Median(data)
	if len(data) >= 2 {
		// Sample standard deviation, n-1 in the denominator.
		s.Std, _ = stats.StandardDeviationSample(data)
	}
	if len(data) >= 3 {
		s.Skewness = stat.Skew(data, nil)
	}
	if len(data) >= 4 {
		s.Kurtosis = stat.ExKurtosis(data, nil)
	}
	return s
}

// ValueFrequency pairs one distinct value with its occurrence count
type ValueFrequency struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TopCounts returns the column's most frequent non-null values, sorted
// descending by count with first-appearance tie order. limit <= 0 means all.
func TopCounts(col table.Column, limit int) []ValueFrequency {
	counts, order := frequencies(col)
	ranked := make([]ValueFrequency, len(order))
	for i, v := range order {
		ranked[i] = ValueFrequency{Value: v, Count: counts[v]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func summarizeText(col table.Column) (CategoricalSummary, UniqueTextSummary, bool) {
	_, order := frequencies(col)

	nUnique := len(order)
	nTotal := len(col.Cells)
	nonNull := col.NonNullCount()

	if float64(nUnique) < float64(nTotal)*categoricalThreshold {
		return CategoricalSummary{
			Column:      col.Name,
			UniqueCount: nUnique,
			TopValues:   formatTopValues(TopCounts(col, topValueCount)),
		}, UniqueTextSummary{}, true
	}
	return CategoricalSummary{}, UniqueTextSummary{
		Column:      col.Name,
		NonNull:     nonNull,
		Nulls:       len(col.Cells) - nonNull,
		UniqueCount: nUnique,
	}, false
}

// frequencies counts distinct non-null values, remembering first-appearance
// order so that equal counts keep a stable tie order.
func frequencies(col table.Column) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, cell := range col.Cells {
		if cell.IsMissing {
			continue
		}
		v := cell.Display()
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	return counts, order
}

func formatTopValues(ranked []ValueFrequency) string {
	parts := make([]string, 0, len(ranked))
	for _, vc := range ranked {
		parts = append(parts, fmt.Sprintf("%s (%d)", vc.Value, vc.Count))
	}
	return strings.Join(parts, ", ")
}
