package table

import (
	"math"
	"time"
)

// ColumnType represents the inferred data type of a column
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeTemporal    ColumnType = "temporal"
	TypeUnknown     ColumnType = "unknown"
)

// Column is one typed column of a cleaned sheet. Slices are parallel to the
// sheet's rows. A cell that is blank, or that failed to parse in a promoted
// column, is marked null and excluded from downstream statistics.
type Column struct {
	Name   string      `json:"name"`
	Type   ColumnType  `json:"type"`
	Labels []string    `json:"labels"` // trimmed raw cell text, "" when blank
	Number []float64   `json:"-"`      // populated when Type == numeric, NaN on null
	Time   []time.Time `json:"-"`      // populated when Type == temporal, zero on null
	Null   []bool      `json:"-"`
}

// NonNullCount returns the number of non-null cells
func (c *Column) NonNullCount() int {
	n := 0
	for _, isNull := range c.Null {
		if !isNull {
			n++
		}
	}
	return n
}

// NullRatio returns the share of null cells in [0,1]
func (c *Column) NullRatio() float64 {
	if len(c.Null) == 0 {
		return 0
	}
	return float64(len(c.Null)-c.NonNullCount()) / float64(len(c.Null))
}

// NumericValues returns the non-null numeric values in row order together
// with their row indices. Only meaningful for numeric columns.
func (c *Column) NumericValues() (values []float64, rows []int) {
	for i, v := range c.Number {
		if c.Null[i] || math.IsNaN(v) {
			continue
		}
		values = append(values, v)
		rows = append(rows, i)
	}
	return values, rows
}

// CategoricalValues returns the non-null label values in row order.
func (c *Column) CategoricalValues() []string {
	var values []string
	for i, v := range c.Labels {
		if c.Null[i] {
			continue
		}
		values = append(values, v)
	}
	return values
}

// DistinctCount returns the number of distinct non-null labels
func (c *Column) DistinctCount() int {
	seen := make(map[string]struct{})
	for i, v := range c.Labels {
		if c.Null[i] {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}

// Sheet is a named, ordered table of typed columns produced by the cleaner.
// It is immutable once produced; the analyzer and scorer only read it.
type Sheet struct {
	Name        string   `json:"name"`
	Columns     []Column `json:"columns"`
	RowCount    int      `json:"row_count"`
	Truncated   bool     `json:"truncated"`
	RowsDropped int      `json:"rows_dropped"`
}

// ColumnCount returns the number of columns
func (s *Sheet) ColumnCount() int { return len(s.Columns) }

// Completeness returns non-null cells / total cells in [0,1]
func (s *Sheet) Completeness() float64 {
	total := s.RowCount * len(s.Columns)
	if total == 0 {
		return 0
	}
	nonNull := 0
	for i := range s.Columns {
		nonNull += s.Columns[i].NonNullCount()
	}
	return float64(nonNull) / float64(total)
}

// MissingCells returns the total number of null cells
func (s *Sheet) MissingCells() int {
	missing := 0
	for i := range s.Columns {
		missing += s.RowCount - s.Columns[i].NonNullCount()
	}
	return missing
}

// ColumnsOfType returns the columns of the given type in sheet order
func (s *Sheet) ColumnsOfType(t ColumnType) []*Column {
	var cols []*Column
	for i := range s.Columns {
		if s.Columns[i].Type == t {
			cols = append(cols, &s.Columns[i])
		}
	}
	return cols
}

// Column returns the column with the given name, or nil
func (s *Sheet) Column(name string) *Column {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return &s.Columns[i]
		}
	}
	return nil
}

// ColumnProfile is derived per-column metadata used by the scorer and the
// report assembler.
type ColumnProfile struct {
	Name          string     `json:"name"`
	Type          ColumnType `json:"type"`
	NullRatio     float64    `json:"null_ratio"`
	DistinctCount int        `json:"distinct_count"`
}

// Profile derives the column's profile
func (c *Column) Profile() ColumnProfile {
	return ColumnProfile{
		Name:          c.Name,
		Type:          c.Type,
		NullRatio:     c.NullRatio(),
		DistinctCount: c.DistinctCount(),
	}
}
