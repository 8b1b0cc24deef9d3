package cleaner

import (
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"tabwise/domain/core"
	"tabwise/domain/table"
	"tabwise/internal/cleaner/coerce"
	"tabwise/internal/config"
)

// Cleaner normalizes a raw cell grid into an immutable typed Sheet: blank
// rows/columns are dropped, headers are made unique, column types are
// inferred, and oversized input is truncated deterministically.
type Cleaner struct {
	cfg     config.PipelineConfig
	coercer *coerce.Coercer
}

// New creates a cleaner with the given pipeline config
func New(cfg config.PipelineConfig) *Cleaner {
	return &Cleaner{
		cfg: cfg,
		coercer: coerce.New(coerce.Config{
			NumericThreshold:  cfg.NumericThreshold,
			TemporalThreshold: cfg.TemporalThreshold,
		}),
	}
}

// Clean produces a Sheet from a raw grid. The first non-blank row is the
// header row. Returns core.ErrEmptySheet when no data rows survive cleaning.
// The input grid is never mutated.
func (c *Cleaner) Clean(name string, raw [][]string) (*table.Sheet, error) {
	grid := dropBlankRows(c.normalize(raw))
	if len(grid) == 0 {
		return nil, core.NewEmptySheetError(name)
	}

	// Blank rows are gone, so the first remaining row is the header row;
	// blank header cells get synthesized names below.
	header := grid[0]
	data := grid[1:]
	if len(data) == 0 {
		return nil, core.NewEmptySheetError(name)
	}

	// Truncation policy: keep the first MaxRows data rows, report the rest.
	truncated := false
	dropped := 0
	if c.cfg.MaxRows > 0 && len(data) > c.cfg.MaxRows {
		dropped = len(data) - c.cfg.MaxRows
		data = data[:c.cfg.MaxRows]
		truncated = true
		log.Printf("[Cleaner] sheet %q truncated to %d rows (%d dropped)", name, c.cfg.MaxRows, dropped)
	}

	keep := nonBlankColumns(data, len(header))
	if len(keep) == 0 {
		return nil, core.NewEmptySheetError(name)
	}

	names := c.headerNames(header, keep)

	columns := make([]table.Column, len(keep))
	for out, in := range keep {
		columns[out] = c.buildColumn(names[out], in, data)
	}

	return &table.Sheet{
		Name:        name,
		Columns:     columns,
		RowCount:    len(data),
		Truncated:   truncated,
		RowsDropped: dropped,
	}, nil
}

// normalize trims and whitespace-collapses every cell without touching the input
func (c *Cleaner) normalize(raw [][]string) [][]string {
	grid := make([][]string, len(raw))
	for i, row := range raw {
		grid[i] = make([]string, len(row))
		for j, cell := range row {
			grid[i][j] = c.coercer.NormalizeLabel(cell)
		}
	}
	return grid
}

func dropBlankRows(grid [][]string) [][]string {
	var out [][]string
	for _, row := range grid {
		if !rowBlank(row) {
			out = append(out, row)
		}
	}
	return out
}

func rowBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// nonBlankColumns returns the indices of columns that have at least one
// non-blank data cell. The header alone does not keep a column alive.
func nonBlankColumns(data [][]string, headerWidth int) []int {
	width := headerWidth
	for _, row := range data {
		if len(row) > width {
			width = len(row)
		}
	}

	var keep []int
	for col := 0; col < width; col++ {
		for _, row := range data {
			if col < len(row) && row[col] != "" {
				keep = append(keep, col)
				break
			}
		}
	}
	return keep
}

// headerNames maps kept column indices to unique names. Blank headers get a
// positional placeholder; duplicates get a numeric suffix.
func (c *Cleaner) headerNames(header []string, keep []int) []string {
	names := make([]string, len(keep))
	seen := make(map[string]int)

	for out, in := range keep {
		name := ""
		if in < len(header) {
			name = header[in]
		}
		if name == "" {
			name = fmt.Sprintf("Column_%d", out+1)
		}
		if seen[name] > 0 {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s_%d", name, n)
				if seen[candidate] == 0 {
					name = candidate
					break
				}
			}
		}
		seen[name] = 1
		names[out] = name
	}
	return names
}

// buildColumn infers the column type over its non-blank values and parses
// cells accordingly. In a promoted column a cell that fails to parse is
// treated as null, not as an error.
func (c *Cleaner) buildColumn(name string, col int, data [][]string) table.Column {
	labels := make([]string, len(data))
	for i, row := range data {
		if col < len(row) {
			labels[i] = row[col]
		}
	}

	analysis := c.coercer.AnalyzeColumn(labels)

	column := table.Column{
		Name:   name,
		Type:   analysis.Recommended,
		Labels: labels,
		Null:   make([]bool, len(labels)),
	}

	switch analysis.Recommended {
	case table.TypeNumeric:
		column.Number = make([]float64, len(labels))
		for i, v := range labels {
			if v == "" {
				column.Null[i] = true
				column.Number[i] = math.NaN()
				continue
			}
			num, ok := c.coercer.ParseNumeric(v)
			if !ok {
				column.Null[i] = true
				column.Number[i] = math.NaN()
				continue
			}
			column.Number[i] = num
		}
	case table.TypeTemporal:
		column.Time = make([]time.Time, len(labels))
		for i, v := range labels {
			if v == "" {
				column.Null[i] = true
				continue
			}
			t, ok := c.coercer.ParseTime(v)
			if !ok {
				column.Null[i] = true
				continue
			}
			column.Time[i] = t
		}
	default:
		for i, v := range labels {
			column.Null[i] = strings.TrimSpace(v) == ""
		}
	}

	return column
}

// Render converts a cleaned sheet back into a raw grid (header plus label
// rows). Cleaning its own rendering yields an identical sheet; the
// idempotence tests rely on this.
func Render(s *table.Sheet) [][]string {
	grid := make([][]string, 0, s.RowCount+1)
	header := make([]string, len(s.Columns))
	for i := range s.Columns {
		header[i] = s.Columns[i].Name
	}
	grid = append(grid, header)

	for row := 0; row < s.RowCount; row++ {
		cells := make([]string, len(s.Columns))
		for i := range s.Columns {
			cells[i] = s.Columns[i].Labels[row]
		}
		grid = append(grid, cells)
	}
	return grid
}
