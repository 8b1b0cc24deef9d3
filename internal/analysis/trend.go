package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"tabwise/domain/table"
)

// trends fits an ordinary least squares line for every (temporal, numeric)
// column pair with at least MinTrendPoints paired non-null observations.
// Time is encoded as fractional days since the Unix epoch, so the slope
// reads as units per day. Direction classifies the slope against
// TrendEpsilon; pairs with too few points or degenerate time axes emit no
// record.
func (a *Analyzer) trends(sheet *table.Sheet) []table.Trend {
	temporal := sheet.ColumnsOfType(table.TypeTemporal)
	numeric := sheet.ColumnsOfType(table.TypeNumeric)
	if len(temporal) == 0 || len(numeric) == 0 {
		return nil
	}

	var out []table.Trend
	for _, timeCol := range temporal {
		for _, numCol := range numeric {
			if trend, ok := a.fitTrend(timeCol, numCol); ok {
				out = append(out, trend)
			}
		}
	}
	return out
}

func (a *Analyzer) fitTrend(timeCol, numCol *table.Column) (table.Trend, bool) {
	type point struct {
		x float64 // days since epoch
		y float64
	}

	var points []point
	for row := range timeCol.Null {
		if timeCol.Null[row] || numCol.Null[row] {
			continue
		}
		points = append(points, point{
			x: float64(timeCol.Time[row].Unix()) / 86400.0,
			y: numCol.Number[row],
		})
	}

	if len(points) < a.cfg.MinTrendPoints {
		return table.Trend{}, false
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].x < points[j].x })

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.x
		ys[i] = p.y
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		// Degenerate time axis (all observations share one timestamp)
		return table.Trend{}, false
	}

	direction := table.TrendFlat
	switch {
	case slope > a.cfg.TrendEpsilon:
		direction = table.TrendIncreasing
	case slope < -a.cfg.TrendEpsilon:
		direction = table.TrendDecreasing
	}

	return table.Trend{
		TimeColumn:  timeCol.Name,
		ValueColumn: numCol.Name,
		Slope:       slope,
		Direction:   direction,
		Points:      len(points),
	}, true
}
