package analysis

import (
	"strings"

	"tabwise/domain/table"
)

// Domain KPI hints: a flat table of domain tag -> substring vocabulary,
// matched case-insensitively against column names. Matching is a
// presentation convenience only; a column that matches nothing simply gets
// no hint.
var domainVocabularies = []struct {
	domain   string
	patterns []string
}{
	{"satisfaction", []string{"satisf", "nps", "score", "rating"}},
	{"sales", []string{"sales", "revenue", "price", "amount", "income", "venta", "ingreso", "precio"}},
	{"conversion", []string{"rate", "conversion", "percentage", "pct", "tasa", "porcentaje"}},
}

// domainKPIs surfaces pre-labeled KPI groupings for numeric columns whose
// names match a known vocabulary. A column can contribute to more than one
// domain; output order follows vocabulary order, then sheet column order.
func (a *Analyzer) domainKPIs(sheet *table.Sheet) []table.DomainKPI {
	var out []table.DomainKPI

	for _, vocab := range domainVocabularies {
		for i := range sheet.Columns {
			col := &sheet.Columns[i]
			if col.Type != table.TypeNumeric {
				continue
			}
			if !matchesAny(col.Name, vocab.patterns) {
				continue
			}
			values, _ := col.NumericValues()
			if len(values) == 0 {
				continue
			}
			out = append(out, table.DomainKPI{
				Domain:  vocab.domain,
				Column:  col.Name,
				Metrics: a.domainMetrics(vocab.domain, values),
			})
		}
	}
	return out
}

func matchesAny(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// domainMetrics computes the per-domain metric set:
//   - satisfaction: average score and share of values at or above the median
//   - sales: total, average, median and the 90th percentile
//   - conversion: average, best and worst rate
func (a *Analyzer) domainMetrics(domain string, values []float64) []table.DomainMetric {
	mean, _ := a.registry.Compute("mean", values)

	switch domain {
	case "satisfaction":
		median, _ := a.registry.Compute("median", values)
		atOrAbove := 0
		for _, v := range values {
			if v >= median {
				atOrAbove++
			}
		}
		return []table.DomainMetric{
			{Name: "average_score", Value: mean},
			{Name: "positive_rate", Value: float64(atOrAbove) / float64(len(values)) * 100},
		}
	case "sales":
		median, _ := a.registry.Compute("median", values)
		sum, _ := a.registry.Compute("sum", values)
		return []table.DomainMetric{
			{Name: "total", Value: sum},
			{Name: "average", Value: mean},
			{Name: "median", Value: median},
			{Name: "top_10_pct", Value: quantileR7(values, 0.9)},
		}
	case "conversion":
		min, _ := a.registry.Compute("min", values)
		max, _ := a.registry.Compute("max", values)
		return []table.DomainMetric{
			{Name: "average_rate", Value: mean},
			{Name: "best_rate", Value: max},
			{Name: "worst_rate", Value: min},
		}
	default:
		return []table.DomainMetric{{Name: "average", Value: mean}}
	}
}
