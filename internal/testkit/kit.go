package testkit

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"tabwise/domain/table"
	"tabwise/internal/cleaner"
	"tabwise/internal/config"
)

// TestKit builds raw grids and cleaned sheets for pipeline tests
type TestKit struct {
	cfg config.Config
	rng *rand.Rand
}

// NewTestKit creates a kit with default config and a fixed seed so every
// generated fixture is reproducible across runs
func NewTestKit() *TestKit {
	return &TestKit{
		cfg: config.Default(),
		rng: rand.New(rand.NewSource(42)),
	}
}

// Config returns the kit's config, callers may copy and tweak it
func (k *TestKit) Config() config.Config { return k.cfg }

// Grid builds a raw grid from a header row and data rows
func Grid(header []string, rows ...[]string) [][]string {
	grid := make([][]string, 0, len(rows)+1)
	grid = append(grid, header)
	grid = append(grid, rows...)
	return grid
}

// NumericColumn renders float values as strings for grid cells
func NumericColumn(values ...float64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
	}
	return out
}

// Transpose converts column-major cell lists into grid rows. All columns
// must have equal length.
func Transpose(columns ...[]string) [][]string {
	if len(columns) == 0 {
		return nil
	}
	rows := make([][]string, len(columns[0]))
	for r := range rows {
		row := make([]string, len(columns))
		for c, col := range columns {
			row[c] = col[r]
		}
		rows[r] = row
	}
	return rows
}

// CleanSheet runs the standard cleaner over a raw grid
func (k *TestKit) CleanSheet(name string, grid [][]string) (*table.Sheet, error) {
	return cleaner.New(k.cfg.Pipeline).Clean(name, grid)
}

// MustCleanSheet is CleanSheet for fixtures that are known to be valid
func (k *TestKit) MustCleanSheet(name string, grid [][]string) *table.Sheet {
	sheet, err := k.CleanSheet(name, grid)
	if err != nil {
		panic(fmt.Sprintf("testkit: fixture grid for %q did not clean: %v", name, err))
	}
	return sheet
}

// SalesGrid generates a realistic sales fixture: a date column, a numeric
// revenue column trending upward, a correlated units column and a region
// category. Row count is capped at what a test needs, not what looks real.
func (k *TestKit) SalesGrid(rows int) [][]string {
	grid := [][]string{{"date", "revenue", "units", "region"}}
	regions := []string{"North", "South", "East", "West"}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < rows; i++ {
		revenue := 1000.0 + float64(i)*25.0 + k.rng.Float64()*50.0
		units := revenue/10.0 + k.rng.Float64()*5.0
		grid = append(grid, []string{
			start.AddDate(0, 0, i).Format("2006-01-02"),
			fmt.Sprintf("%.2f", revenue),
			fmt.Sprintf("%.0f", units),
			regions[i%len(regions)],
		})
	}
	return grid
}

// SurveyGrid generates a satisfaction survey fixture with scores on a
// 0-10 scale and a free-form category column
func (k *TestKit) SurveyGrid(rows int) [][]string {
	grid := [][]string{{"respondent", "satisfaction_score", "channel"}}
	channels := []string{"email", "phone", "chat"}
	for i := 0; i < rows; i++ {
		grid = append(grid, []string{
			fmt.Sprintf("R-%04d", i+1),
			fmt.Sprintf("%d", 4+k.rng.Intn(7)),
			channels[k.rng.Intn(len(channels))],
		})
	}
	return grid
}

// CSVBytes renders a grid as CSV file content for reader tests
func CSVBytes(grid [][]string) []byte {
	var b strings.Builder
	for _, row := range grid {
		cells := make([]string, len(row))
		for i, cell := range row {
			if strings.ContainsAny(cell, ",\"\n") {
				cell = "\"" + strings.ReplaceAll(cell, "\"", "\"\"") + "\""
			}
			cells[i] = cell
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteString("\n")
	}
	return []byte(b.String())
}
