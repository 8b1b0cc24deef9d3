package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"tabwise/domain/table"
)

// correlations builds the pairwise Pearson matrix over the sheet's numeric
// columns. The matrix is symmetric with diagonal 1.0. Entries are NaN when
// fewer than MinCorrelationSamples paired non-null observations exist or a
// column has zero variance. A pair enters the significant list when
// |r| exceeds CorrelationThreshold; self-correlations are excluded.
func (a *Analyzer) correlations(sheet *table.Sheet) table.CorrelationSet {
	numeric := sheet.ColumnsOfType(table.TypeNumeric)
	set := table.CorrelationSet{}
	if len(numeric) == 0 {
		return set
	}

	set.Columns = make([]string, len(numeric))
	for i, col := range numeric {
		set.Columns[i] = col.Name
	}

	n := len(numeric)
	set.Matrix = make([][]float64, n)
	for i := range set.Matrix {
		set.Matrix[i] = make([]float64, n)
		set.Matrix[i][i] = 1.0
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r, pairs := pearson(numeric[i], numeric[j], a.cfg.MinCorrelationSamples)
			set.Matrix[i][j] = r
			set.Matrix[j][i] = r

			if !math.IsNaN(r) && math.Abs(r) > a.cfg.CorrelationThreshold {
				set.Significant = append(set.Significant, table.CorrelationPair{
					ColumnA: numeric[i].Name,
					ColumnB: numeric[j].Name,
					R:       r,
					N:       pairs,
				})
			}
		}
	}
	return set
}

// pearson computes the Pearson correlation over rows where both columns are
// non-null. Returns NaN when fewer than minSamples pairs exist or either
// side has zero variance.
func pearson(a, b *table.Column, minSamples int) (float64, int) {
	var xs, ys []float64
	for row := range a.Null {
		if a.Null[row] || b.Null[row] {
			continue
		}
		xs = append(xs, a.Number[row])
		ys = append(ys, b.Number[row])
	}

	if len(xs) < minSamples {
		return math.NaN(), len(xs)
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN(), len(xs)
	}
	// Guard against floating point drift outside [-1, 1]
	if r > 1 {
		r = 1
	}
	if r < -1 {
		r = -1
	}
	return r, len(xs)
}
