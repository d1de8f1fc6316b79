package ui

import (
	"fmt"
	"net/url"

	"comparador/domain/catalog"
	"comparador/domain/table"
	"comparador/internal/loader"
	"comparador/internal/summary"
)

const previewRows = 10

// pageData is everything the index template needs
type pageData struct {
	Notice  string
	Warning string

	HasLocal  bool
	HasRemote bool

	Institutions []string
	SelectedOrg  string
	Datasets     []datasetView
	MaxMB        float64

	Local  *paneView
	Remote *paneView
}

// datasetView is one catalog package with its expansion state
type datasetView struct {
	ID        string
	Slug      string
	Title     string
	Expanded  bool
	Resources []resourceView
	NoFiles   bool
}

// resourceView is one downloadable file, ready for display
type resourceView struct {
	ID        string
	Name      string
	Format    string
	SizeLabel string
	URL       string
	TooLarge  bool
	Loadable  bool
}

// paneView is one side of the comparison
type paneView struct {
	Label          string
	Source         string
	Header         []string
	Preview        [][]string
	MoreRows       int
	Agg            summary.AggregateSummary
	Numeric        []numericRow
	Categorical    []summary.CategoricalSummary
	UniqueText     []summary.UniqueTextSummary
	Unclassified   []string
	CategoryCharts []chartLink
	NumericCharts  []chartLink
}

// numericRow carries display-formatted statistics
type numericRow struct {
	Column                                  string
	Count                                   int
	Mean, Std, Min, Median, Max, Skew, Kurt string
}

// chartLink points at a chart page for one column
type chartLink struct {
	Label string
	Slug  string
	URL   string
}

func newResourceView(res catalog.Resource, maxMB float64) resourceView {
	return resourceView{
		ID:        res.ID,
		Name:      res.DisplayName(),
		Format:    res.Format,
		SizeLabel: res.HumanSize(),
		URL:       res.URL,
		TooLarge:  res.TooLargeToLoad(maxMB),
		Loadable:  loader.Supported(res.Format),
	}
}

// newPaneView summarizes one dataset for display. Summaries are recomputed
// on every render; they are pure and cheap relative to the load itself.
func newPaneView(label, source string, tab *table.Table) *paneView {
	if tab == nil {
		return nil
	}
	agg := summary.Aggregate(tab)
	cls := summary.Classify(tab)

	p := &paneView{
		Label:        label,
		Source:       tab.Source,
		Header:       tab.Header(),
		Agg:          agg,
		Categorical:  cls.Categorical,
		UniqueText:   cls.UniqueText,
		Unclassified: cls.Unclassified,
	}

	n := tab.NumRows()
	if n > previewRows {
		p.MoreRows = n - previewRows
		n = previewRows
	}
	for i := 0; i < n; i++ {
		p.Preview = append(p.Preview, tab.Row(i))
	}

	for _, rec := range cls.Numeric {
		p.Numeric = append(p.Numeric, numericRow{
			Column: rec.Column,
			Count:  rec.Count,
			Mean:   fmtStat(rec.Mean),
			Std:    fmtStat(rec.Std),
			Min:    fmtStat(rec.Min),
			Median: fmtStat(rec.Median),
			Max:    fmtStat(rec.Max),
			Skew:   fmtStat(rec.Skewness),
			Kurt:   fmtStat(rec.Kurtosis),
		})
		p.NumericCharts = append(p.NumericCharts, newChartLink("histograma", source, rec.Column))
	}
	for _, rec := range cls.Categorical {
		p.CategoryCharts = append(p.CategoryCharts, newChartLink("categoria", source, rec.Column))
	}
	return p
}

func newChartLink(kind, source, column string) chartLink {
	q := url.Values{"fuente": {source}, "col": {column}}
	return chartLink{
		Label: column,
		Slug:  loader.Identifier(column),
		URL:   fmt.Sprintf("/graficas/%s?%s", kind, q.Encode()),
	}
}

func fmtStat(f float64) string {
	if f != f { // NaN
		return "NaN"
	}
	return fmt.Sprintf("%.4f", f)
}
