package report

import (
	"math"
	"strings"
	"testing"

	"tabwise/domain/table"
)

func sampleResult() (*table.AnalysisResult, *table.QualityReport) {
	result := &table.AnalysisResult{
		Global: table.GlobalKPIs{
			TotalSheets:        1,
			TotalRecords:       5,
			TotalColumns:       3,
			AvgRecordsPerSheet: 5,
		},
		Sheets: []table.SheetAnalysis{
			{
				Sheet:            "ventas",
				TotalRecords:     5,
				CompletenessRate: 100,
				Numeric: []table.NumericKPI{
					{Column: "revenue", Count: 5, Mean: 3, Median: 3, StdDev: 1.58, Min: 1, Max: 5, Sum: 15},
				},
				Categorical: []table.CategoricalKPI{
					{
						Column: "region", Distinct: 2, Mode: "North", ModeCount: 3, Diversity: 40,
						TopValues: []table.ValueCount{
							{Value: "North", Count: 3, Ratio: 0.6},
							{Value: "South", Count: 2, Ratio: 0.4},
						},
					},
				},
				Distributions: []table.Distribution{
					{Column: "revenue", Q1: 2, Q2: 3, Q3: 4, Skewness: 0, Kurtosis: math.NaN()},
				},
				Correlations: table.CorrelationSet{
					Columns: []string{"revenue"},
					Significant: []table.CorrelationPair{
						{ColumnA: "revenue", ColumnB: "units", R: 0.82, N: 5},
					},
				},
				Trends: []table.Trend{
					{TimeColumn: "date", ValueColumn: "revenue", Slope: 10.5, Direction: table.TrendIncreasing, Points: 5},
				},
				Anomalies: []table.AnomalyRecord{
					{Column: "revenue", Rows: []int{4}, Lower: -1, Upper: 7, Share: 0.2},
				},
				DomainKPIs: []table.DomainKPI{
					{Domain: "sales", Column: "revenue", Metrics: []table.DomainMetric{{Name: "total", Value: 15}}},
				},
				Aggregations: []table.GroupAggregation{
					{
						Categorical: "region", Numeric: "revenue",
						Groups: []table.GroupStat{{Key: "North", Count: 3, Mean: 2, Sum: 6}},
					},
				},
			},
		},
	}

	quality := &table.QualityReport{
		Score:        95,
		Band:         table.BandExcellent,
		TotalSheets:  1,
		TotalRows:    5,
		TotalColumns: 3,
		Issues: []table.Issue{
			{Severity: table.SeverityWarning, Category: table.IssueStructure, Sheet: "ventas", Message: "short sheet"},
		},
	}
	return result, quality
}

func TestAssemble_SectionHeaders(t *testing.T) {
	result, quality := sampleResult()
	out := NewAssembler(30).Assemble(result, quality)

	headers := []string{
		"## Deterministic Quantitative Analysis",
		"### Data Quality",
		"### Global Metrics",
		"### Sheet: ventas",
		"#### Numeric KPIs",
		"#### Categorical Distributions",
		"#### Distribution Statistics",
		"#### Significant Correlations",
		"#### Temporal Trends",
		"#### Anomalies (IQR method)",
		"#### Domain KPIs",
		"#### Cross Aggregations",
	}

	pos := -1
	for _, h := range headers {
		idx := strings.Index(out, h)
		if idx < 0 {
			t.Errorf("missing section %q", h)
			continue
		}
		if idx < pos {
			t.Errorf("section %q out of order", h)
		}
		pos = idx
	}
}

func TestAssemble_Content(t *testing.T) {
	result, quality := sampleResult()
	out := NewAssembler(30).Assemble(result, quality)

	wants := []string{
		"**Score**: 95/100 (excellent)",
		"| revenue | 5 | 3.00 | 3.00 | 1.58 | 1.00 | 5.00 | 15.00 |",
		"r = 0.82 (n = 5)",
		"slope 10.5000 per day, 5 points",
		"outside [-1.00, 7.00], rows [4]",
		"[warning] short sheet",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// NaN statistics must render as n/a, never as NaN text
func TestAssemble_NaNRendersAsNA(t *testing.T) {
	result, quality := sampleResult()
	out := NewAssembler(30).Assemble(result, quality)

	if strings.Contains(out, "NaN") {
		t.Error("output contains raw NaN")
	}
	if !strings.Contains(out, "| revenue | 2.00 | 3.00 | 4.00 | 0.00 | n/a |") {
		t.Error("NaN kurtosis did not render as n/a")
	}
}

func TestAssemble_EmptySectionsOmitted(t *testing.T) {
	result := &table.AnalysisResult{
		Sheets: []table.SheetAnalysis{{Sheet: "s", TotalRecords: 2, CompletenessRate: 100}},
	}
	out := NewAssembler(30).Assemble(result, nil)

	for _, h := range []string{"#### Numeric KPIs", "#### Temporal Trends", "#### Anomalies", "### Data Quality"} {
		if strings.Contains(out, h) {
			t.Errorf("empty section %q should be omitted", h)
		}
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	result, quality := sampleResult()
	a := NewAssembler(30)
	if a.Assemble(result, quality) != a.Assemble(result, quality) {
		t.Error("assembled output not byte-identical across runs")
	}
}

func TestAssemble_TruncatesLongValues(t *testing.T) {
	long := strings.Repeat("x", 80)
	result := &table.AnalysisResult{
		Sheets: []table.SheetAnalysis{
			{
				Sheet:        "s",
				TotalRecords: 1,
				Categorical: []table.CategoricalKPI{
					{Column: "c", Distinct: 1, Mode: long, ModeCount: 1, TopValues: []table.ValueCount{{Value: long, Count: 1, Ratio: 1}}},
				},
			},
		},
	}
	out := NewAssembler(30).Assemble(result, nil)

	if strings.Contains(out, long) {
		t.Error("long value not truncated")
	}
	if !strings.Contains(out, strings.Repeat("x", 50)+"...") {
		t.Error("expected 50-char truncation with ellipsis")
	}
}

func TestRenderHTML(t *testing.T) {
	result, quality := sampleResult()
	md := NewAssembler(30).Assemble(result, quality)
	html := RenderHTML(md)

	if !strings.Contains(html, "<h2") {
		t.Error("expected h2 in rendered HTML")
	}
	if !strings.Contains(html, "<table") {
		t.Error("expected markdown tables to render as HTML tables")
	}
}
