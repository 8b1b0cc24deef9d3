package analysis

import (
	"tabwise/domain/table"
)

// anomalies runs IQR outlier detection per numeric column. A value is an
// outlier when it falls strictly outside [Q1 - k*IQR, Q3 + k*IQR] with
// k = IQRMultiplier; a value exactly on a fence is not flagged. Columns with
// fewer than MinAnomalySamples non-null values, or with IQR == 0, emit no
// record (a zero IQR would flag every non-modal value).
func (a *Analyzer) anomalies(sheet *table.Sheet) []table.AnomalyRecord {
	var out []table.AnomalyRecord

	for i := range sheet.Columns {
		col := &sheet.Columns[i]
		if col.Type != table.TypeNumeric {
			continue
		}

		values, rows := col.NumericValues()
		if len(values) < a.cfg.MinAnomalySamples {
			continue
		}

		q1 := quantileR7(values, 0.25)
		q3 := quantileR7(values, 0.75)
		iqr := q3 - q1
		if iqr == 0 {
			continue
		}

		lower := q1 - a.cfg.IQRMultiplier*iqr
		upper := q3 + a.cfg.IQRMultiplier*iqr

		var outliers []int
		for k, v := range values {
			if v < lower || v > upper {
				outliers = append(outliers, rows[k])
			}
		}
		if len(outliers) == 0 {
			continue
		}

		out = append(out, table.AnomalyRecord{
			Column: col.Name,
			Rows:   outliers,
			Lower:  lower,
			Upper:  upper,
			Share:  float64(len(outliers)) / float64(len(values)),
		})
	}
	return out
}
