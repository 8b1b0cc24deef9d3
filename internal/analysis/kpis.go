package analysis

import (
	"math"
	"sort"

	"tabwise/domain/table"
)

// numericKPI computes the summary statistics for one numeric column.
// StdDev is NaN for fewer than two non-null values instead of failing.
func (a *Analyzer) numericKPI(col *table.Column) table.NumericKPI {
	values, _ := col.NumericValues()
	kpi := table.NumericKPI{
		Column: col.Name,
		Count:  len(values),
		Mean:   math.NaN(),
		Median: math.NaN(),
		StdDev: math.NaN(),
		Min:    math.NaN(),
		Max:    math.NaN(),
	}
	if len(values) == 0 {
		kpi.Sum = 0
		return kpi
	}

	for _, name := range []string{"mean", "median", "min", "max", "sum"} {
		if v, err := a.registry.Compute(name, values); err == nil {
			switch name {
			case "mean":
				kpi.Mean = v
			case "median":
				kpi.Median = v
			case "min":
				kpi.Min = v
			case "max":
				kpi.Max = v
			case "sum":
				kpi.Sum = v
			}
		}
	}
	if len(values) >= 2 {
		if v, err := a.registry.Compute("stddev", values); err == nil {
			kpi.StdDev = v
		}
	}
	return kpi
}

// categoricalKPI computes distinct count, mode and diversity for one
// categorical column. Mode ties break toward the first-encountered value;
// diversity is distinct-count / row-count as a percentage.
func (a *Analyzer) categoricalKPI(col *table.Column, rowCount int) table.CategoricalKPI {
	values := col.CategoricalValues()

	counts := make(map[string]int, len(values))
	var order []string
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	mode := ""
	modeCount := 0
	for _, v := range order {
		if counts[v] > modeCount {
			mode = v
			modeCount = counts[v]
		}
	}

	diversity := 0.0
	if rowCount > 0 {
		diversity = float64(len(order)) / float64(rowCount) * 100
	}

	return table.CategoricalKPI{
		Column:    col.Name,
		Distinct:  len(order),
		Mode:      mode,
		ModeCount: modeCount,
		Diversity: diversity,
		TopValues: topValues(order, counts, len(values), a.cfg.TopValueCount),
	}
}

// topValues returns the most frequent categories, capped at limit. Sorting
// is by descending count with first-seen order breaking ties, so the result
// is stable across runs.
func topValues(order []string, counts map[string]int, total, limit int) []table.ValueCount {
	firstSeen := make(map[string]int, len(order))
	for i, v := range order {
		firstSeen[v] = i
	}

	sorted := make([]string, len(order))
	copy(sorted, order)
	sort.SliceStable(sorted, func(i, j int) bool {
		if counts[sorted[i]] != counts[sorted[j]] {
			return counts[sorted[i]] > counts[sorted[j]]
		}
		return firstSeen[sorted[i]] < firstSeen[sorted[j]]
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]table.ValueCount, len(sorted))
	for i, v := range sorted {
		out[i] = table.ValueCount{
			Value: v,
			Count: counts[v],
			Ratio: float64(counts[v]) / float64(total),
		}
	}
	return out
}

// aggregations groups every numeric column by every categorical column whose
// cardinality stays within MaxGroupCardinality. Group keys keep first-seen
// order.
func (a *Analyzer) aggregations(sheet *table.Sheet) []table.GroupAggregation {
	var out []table.GroupAggregation

	for ci := range sheet.Columns {
		catCol := &sheet.Columns[ci]
		if catCol.Type != table.TypeCategorical {
			continue
		}
		if catCol.DistinctCount() > a.cfg.MaxGroupCardinality {
			continue
		}

		for ni := range sheet.Columns {
			numCol := &sheet.Columns[ni]
			if numCol.Type != table.TypeNumeric {
				continue
			}
			if agg := groupBy(catCol, numCol); len(agg.Groups) > 0 {
				out = append(out, agg)
			}
		}
	}
	return out
}

func groupBy(catCol, numCol *table.Column) table.GroupAggregation {
	agg := table.GroupAggregation{
		Categorical: catCol.Name,
		Numeric:     numCol.Name,
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	var order []string

	for row := range catCol.Labels {
		if catCol.Null[row] || numCol.Null[row] {
			continue
		}
		key := catCol.Labels[row]
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
		sums[key] += numCol.Number[row]
	}

	for _, key := range order {
		agg.Groups = append(agg.Groups, table.GroupStat{
			Key:   key,
			Count: counts[key],
			Mean:  sums[key] / float64(counts[key]),
			Sum:   sums[key],
		})
	}
	return agg
}

// distribution computes quartiles and shape moments for one numeric column
func (a *Analyzer) distribution(col *table.Column) table.Distribution {
	values, _ := col.NumericValues()
	return table.Distribution{
		Column:   col.Name,
		Q1:       quantileR7(values, 0.25),
		Q2:       quantileR7(values, 0.50),
		Q3:       quantileR7(values, 0.75),
		Skewness: skewness(values),
		Kurtosis: kurtosis(values),
	}
}
