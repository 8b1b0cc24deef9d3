package table

// TrendDirection classifies a fitted trend slope
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendFlat       TrendDirection = "flat"
)

// NumericKPI holds summary statistics for one numeric column.
// StdDev uses the sample (N-1) denominator and is NaN for fewer than two
// non-null values.
type NumericKPI struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Sum    float64 `json:"sum"`
}

// ValueCount represents a category value and its frequency
type ValueCount struct {
	Value string  `json:"value"`
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
}

// CategoricalKPI holds summary statistics for one categorical column.
// Mode ties break toward the first-encountered value. Diversity is
// distinct-count / row-count expressed as a percentage.
type CategoricalKPI struct {
	Column    string       `json:"column"`
	Distinct  int          `json:"distinct"`
	Mode      string       `json:"mode"`
	ModeCount int          `json:"mode_count"`
	Diversity float64      `json:"diversity"`
	TopValues []ValueCount `json:"top_values"`
}

// GroupStat is one group of a cross aggregation
type GroupStat struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Sum   float64 `json:"sum"`
}

// GroupAggregation groups one numeric column by one categorical column.
// Group order follows first-seen order of category values.
type GroupAggregation struct {
	Categorical string      `json:"categorical"`
	Numeric     string      `json:"numeric"`
	Groups      []GroupStat `json:"groups"`
}

// Distribution describes the shape of one numeric column. Quartiles use the
// R-7 linear interpolation method. Skewness is the adjusted Fisher-Pearson
// coefficient, kurtosis is bias-corrected sample excess kurtosis; both are
// NaN below their minimum sample sizes (3 and 4).
type Distribution struct {
	Column   string  `json:"column"`
	Q1       float64 `json:"q1"`
	Q2       float64 `json:"q2"`
	Q3       float64 `json:"q3"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// CorrelationPair is a significant numeric-column pair (|r| above the
// configured threshold with sufficient paired observations)
type CorrelationPair struct {
	ColumnA string  `json:"column_a"`
	ColumnB string  `json:"column_b"`
	R       float64 `json:"r"`
	N       int     `json:"n"`
}

// CorrelationSet holds the Pearson matrix over the sheet's numeric columns.
// The matrix is symmetric with diagonal 1.0; entries are NaN when a column
// has zero variance or too few paired observations.
type CorrelationSet struct {
	Columns     []string          `json:"columns"`
	Matrix      [][]float64       `json:"matrix"`
	Significant []CorrelationPair `json:"significant"`
}

// Trend is a fitted linear trend of one numeric column against one temporal
// column (OLS slope over day-encoded time)
type Trend struct {
	TimeColumn  string         `json:"time_column"`
	ValueColumn string         `json:"value_column"`
	Slope       float64        `json:"slope"`
	Direction   TrendDirection `json:"direction"`
	Points      int            `json:"points"`
}

// AnomalyRecord lists the IQR outliers of one numeric column. Rows holds
// the offending row indices within the cleaned sheet.
type AnomalyRecord struct {
	Column string  `json:"column"`
	Rows   []int   `json:"rows"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	Share  float64 `json:"share"` // outliers / non-null values
}

// DomainMetric is a single named value inside a domain KPI hint
type DomainMetric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// DomainKPI surfaces a pre-labeled KPI grouping detected from column names.
// Purely presentational; absence of a match is not an error.
type DomainKPI struct {
	Domain  string         `json:"domain"` // satisfaction, sales, conversion
	Column  string         `json:"column"`
	Metrics []DomainMetric `json:"metrics"`
}

// SheetAnalysis is the full deterministic analysis of one sheet. Slices are
// ordered by sheet column order so output is reproducible.
type SheetAnalysis struct {
	Sheet            string             `json:"sheet"`
	TotalRecords     int                `json:"total_records"`
	CompletenessRate float64            `json:"completeness_rate"` // percentage
	MissingValues    int                `json:"missing_values"`
	Numeric          []NumericKPI       `json:"numeric"`
	Categorical      []CategoricalKPI   `json:"categorical"`
	Aggregations     []GroupAggregation `json:"aggregations"`
	Distributions    []Distribution     `json:"distributions"`
	Correlations     CorrelationSet     `json:"correlations"`
	Trends           []Trend            `json:"trends"`
	Anomalies        []AnomalyRecord    `json:"anomalies"`
	DomainKPIs       []DomainKPI        `json:"domain_kpis"`
}

// GlobalKPIs aggregates across all sheets of an invocation
type GlobalKPIs struct {
	TotalSheets        int     `json:"total_sheets"`
	TotalRecords       int     `json:"total_records"`
	TotalColumns       int     `json:"total_columns"`
	AvgRecordsPerSheet float64 `json:"avg_records_per_sheet"`
}

// AnalysisResult is the complete deterministic output for one invocation.
// Never mutated after creation; downstream consumers read it only.
type AnalysisResult struct {
	Sheets []SheetAnalysis `json:"sheets"`
	Global GlobalKPIs      `json:"global"`
}

// Sheet returns the analysis for the named sheet, or nil
func (r *AnalysisResult) Sheet(name string) *SheetAnalysis {
	for i := range r.Sheets {
		if r.Sheets[i].Sheet == name {
			return &r.Sheets[i]
		}
	}
	return nil
}
