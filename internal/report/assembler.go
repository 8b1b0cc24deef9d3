package report

import (
	"fmt"
	"math"
	"strings"

	"tabwise/domain/table"
)

// Assembler formats an Analysis Result and Quality Report into a markdown
// block with stable section headers. The block doubles as the narrative
// model's context input and as the skeleton that document renderers fill in,
// so formatting must be deterministic: fixed precision, fixed section order,
// no locale-dependent output.
type Assembler struct {
	// MaxCategories caps the rows of categorical distribution tables.
	MaxCategories int
	// MaxValueWidth truncates long category labels for display only.
	MaxValueWidth int
}

// NewAssembler returns an assembler with the documented display limits
func NewAssembler(maxCategories int) *Assembler {
	return &Assembler{MaxCategories: maxCategories, MaxValueWidth: 50}
}

// Assemble renders the full report block
func (as *Assembler) Assemble(result *table.AnalysisResult, quality *table.QualityReport) string {
	var b strings.Builder

	b.WriteString("## Deterministic Quantitative Analysis\n\n")

	as.writeQuality(&b, quality)
	as.writeGlobal(&b, result.Global)

	for i := range result.Sheets {
		as.writeSheet(&b, &result.Sheets[i])
	}

	return b.String()
}

func (as *Assembler) writeQuality(b *strings.Builder, q *table.QualityReport) {
	if q == nil {
		return
	}
	b.WriteString("### Data Quality\n\n")
	fmt.Fprintf(b, "- **Score**: %d/100 (%s)\n", q.Score, q.Band)
	fmt.Fprintf(b, "- **Sheets**: %d, **Rows**: %d, **Columns**: %d\n", q.TotalSheets, q.TotalRows, q.TotalColumns)
	if len(q.Issues) > 0 {
		fmt.Fprintf(b, "- **Issues** (%d):\n", len(q.Issues))
		for _, issue := range q.Issues {
			fmt.Fprintf(b, "  - [%s] %s\n", issue.Severity, issue.Message)
		}
	}
	b.WriteString("\n")
}

func (as *Assembler) writeGlobal(b *strings.Builder, g table.GlobalKPIs) {
	b.WriteString("### Global Metrics\n\n")
	fmt.Fprintf(b, "- **Total Sheets**: %d\n", g.TotalSheets)
	fmt.Fprintf(b, "- **Total Records**: %d\n", g.TotalRecords)
	fmt.Fprintf(b, "- **Total Columns**: %d\n", g.TotalColumns)
	fmt.Fprintf(b, "- **Avg Records Per Sheet**: %s\n\n", fmtNum(g.AvgRecordsPerSheet))
}

func (as *Assembler) writeSheet(b *strings.Builder, sa *table.SheetAnalysis) {
	fmt.Fprintf(b, "### Sheet: %s\n\n", sa.Sheet)
	fmt.Fprintf(b, "- **Total Records**: %d\n", sa.TotalRecords)
	fmt.Fprintf(b, "- **Completeness**: %s%%\n", fmtNum(sa.CompletenessRate))
	fmt.Fprintf(b, "- **Missing Values**: %d\n\n", sa.MissingValues)

	if len(sa.Numeric) > 0 {
		b.WriteString("#### Numeric KPIs\n\n")
		b.WriteString("| Column | Count | Mean | Median | StdDev | Min | Max | Sum |\n")
		b.WriteString("|--------|-------|------|--------|--------|-----|-----|-----|\n")
		for _, kpi := range sa.Numeric {
			fmt.Fprintf(b, "| %s | %d | %s | %s | %s | %s | %s | %s |\n",
				kpi.Column, kpi.Count, fmtNum(kpi.Mean), fmtNum(kpi.Median),
				fmtNum(kpi.StdDev), fmtNum(kpi.Min), fmtNum(kpi.Max), fmtNum(kpi.Sum))
		}
		b.WriteString("\n")
	}

	if len(sa.Categorical) > 0 {
		b.WriteString("#### Categorical Distributions\n\n")
		for _, kpi := range sa.Categorical {
			fmt.Fprintf(b, "**%s** (%d distinct, mode %q, diversity %s%%):\n\n",
				kpi.Column, kpi.Distinct, as.truncate(kpi.Mode), fmtNum(kpi.Diversity))
			if len(kpi.TopValues) > 0 && len(kpi.TopValues) <= as.MaxCategories {
				b.WriteString("| Value | Count | Share |\n")
				b.WriteString("|-------|-------|-------|\n")
				for _, vc := range kpi.TopValues {
					fmt.Fprintf(b, "| %s | %d | %s%% |\n", as.truncate(vc.Value), vc.Count, fmtNum(vc.Ratio*100))
				}
			}
			b.WriteString("\n")
		}
	}

	if len(sa.Distributions) > 0 {
		b.WriteString("#### Distribution Statistics\n\n")
		b.WriteString("| Column | Q1 | Q2 | Q3 | Skewness | Kurtosis |\n")
		b.WriteString("|--------|----|----|----|----------|----------|\n")
		for _, d := range sa.Distributions {
			fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
				d.Column, fmtNum(d.Q1), fmtNum(d.Q2), fmtNum(d.Q3), fmtNum(d.Skewness), fmtNum(d.Kurtosis))
		}
		b.WriteString("\n")
	}

	if len(sa.Correlations.Significant) > 0 {
		b.WriteString("#### Significant Correlations\n\n")
		for _, pair := range sa.Correlations.Significant {
			fmt.Fprintf(b, "- **%s** vs **%s**: r = %s (n = %d)\n", pair.ColumnA, pair.ColumnB, fmtNum(pair.R), pair.N)
		}
		b.WriteString("\n")
	}

	if len(sa.Trends) > 0 {
		b.WriteString("#### Temporal Trends\n\n")
		for _, tr := range sa.Trends {
			fmt.Fprintf(b, "- **%s** over **%s**: %s (slope %s per day, %d points)\n",
				tr.ValueColumn, tr.TimeColumn, tr.Direction, fmtSlope(tr.Slope), tr.Points)
		}
		b.WriteString("\n")
	}

	if len(sa.Anomalies) > 0 {
		b.WriteString("#### Anomalies (IQR method)\n\n")
		for _, an := range sa.Anomalies {
			fmt.Fprintf(b, "- **%s**: %d outliers (%s%%) outside [%s, %s], rows %v\n",
				an.Column, len(an.Rows), fmtNum(an.Share*100), fmtNum(an.Lower), fmtNum(an.Upper), an.Rows)
		}
		b.WriteString("\n")
	}

	if len(sa.DomainKPIs) > 0 {
		b.WriteString("#### Domain KPIs\n\n")
		for _, dk := range sa.DomainKPIs {
			fmt.Fprintf(b, "- **%s** (%s):", dk.Column, dk.Domain)
			for i, m := range dk.Metrics {
				if i > 0 {
					b.WriteString(",")
				}
				fmt.Fprintf(b, " %s = %s", m.Name, fmtNum(m.Value))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(sa.Aggregations) > 0 {
		b.WriteString("#### Cross Aggregations\n\n")
		for _, agg := range sa.Aggregations {
			fmt.Fprintf(b, "**%s by %s**:\n\n", agg.Numeric, agg.Categorical)
			b.WriteString("| Group | Count | Mean | Sum |\n")
			b.WriteString("|-------|-------|------|-----|\n")
			for _, g := range agg.Groups {
				fmt.Fprintf(b, "| %s | %d | %s | %s |\n", as.truncate(g.Key), g.Count, fmtNum(g.Mean), fmtNum(g.Sum))
			}
			b.WriteString("\n")
		}
	}
}

func (as *Assembler) truncate(s string) string {
	if as.MaxValueWidth > 0 && len(s) > as.MaxValueWidth {
		return s[:as.MaxValueWidth] + "..."
	}
	return s
}

// fmtNum renders a value at the fixed display precision of two decimals.
// Undefined statistics (NaN) render as "n/a" rather than vanishing.
func fmtNum(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

// fmtSlope keeps four decimals; trend slopes are often small
func fmtSlope(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}
