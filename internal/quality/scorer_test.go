package quality

import (
	"testing"

	"tabwise/domain/table"
	"tabwise/internal/config"
	"tabwise/internal/testkit"
)

func testScorer() *Scorer {
	return New(config.Default().Quality)
}

func TestScore_CleanSheetIsPerfect(t *testing.T) {
	kit := testkit.NewTestKit()
	sheet := kit.MustCleanSheet("clean", testkit.Grid(
		[]string{"id", "value", "label"},
		[]string{"1", "10.5", "a"},
		[]string{"2", "11.0", "b"},
		[]string{"3", "12.3", "c"},
		[]string{"4", "13.1", "d"},
		[]string{"5", "14.8", "e"},
	))

	report := testScorer().Score([]*table.Sheet{sheet})

	if report.Score != 100 {
		t.Errorf("Score = %d, want 100", report.Score)
	}
	if report.Band != table.BandExcellent {
		t.Errorf("Band = %v, want excellent", report.Band)
	}
	if len(report.Issues) != 0 {
		t.Errorf("Issues = %v, want none", report.Issues)
	}
	if report.TotalRows != 5 || report.TotalColumns != 3 {
		t.Errorf("totals = %d rows / %d cols, want 5/3", report.TotalRows, report.TotalColumns)
	}
}

// Three rows is the smallest sheet that scores perfect
func TestScore_ThreeRowProductSheet(t *testing.T) {
	kit := testkit.NewTestKit()
	sheet := kit.MustCleanSheet("products", testkit.Grid(
		[]string{"Product", "Sales", "Price", "Category"},
		[]string{"Widget", "120", "9.99", "Hardware"},
		[]string{"Gadget", "80", "19.99", "Hardware"},
		[]string{"Gizmo", "45", "4.50", "Novelty"},
	))

	report := testScorer().Score([]*table.Sheet{sheet})

	if report.Score != 100 || report.Band != table.BandExcellent || len(report.Issues) != 0 {
		t.Errorf("report = score %d, band %v, %d issues; want 100/excellent/0",
			report.Score, report.Band, len(report.Issues))
	}
}

func TestScore_FewRows(t *testing.T) {
	kit := testkit.NewTestKit()
	sheet := kit.MustCleanSheet("tiny", testkit.Grid(
		[]string{"a", "b"},
		[]string{"1", "x"},
		[]string{"2", "y"},
	))

	report := testScorer().Score([]*table.Sheet{sheet})

	if report.Score != 95 {
		t.Errorf("Score = %d, want 95", report.Score)
	}
	if len(report.Warnings()) != 1 {
		t.Errorf("Warnings = %d, want 1", len(report.Warnings()))
	}
	if report.Issues[0].Category != table.IssueStructure {
		t.Errorf("Category = %v, want structure", report.Issues[0].Category)
	}
}

func TestScore_DuplicateRows(t *testing.T) {
	kit := testkit.NewTestKit()

	// 1 duplicate in 10 rows = 10%, which is not above the high cutoff
	grid := testkit.Grid([]string{"id", "v"})
	for i := 0; i < 9; i++ {
		grid = append(grid, []string{string(rune('a' + i)), "1"})
	}
	grid = append(grid, []string{"a", "1"})

	sheet := kit.MustCleanSheet("dups", grid)
	report := testScorer().Score([]*table.Sheet{sheet})

	foundDup := false
	for _, issue := range report.Issues {
		if issue.Category == table.IssueDuplicates {
			foundDup = true
			if issue.Severity != table.SeverityInfo {
				t.Errorf("10%% duplicates severity = %v, want info", issue.Severity)
			}
		}
	}
	if !foundDup {
		t.Error("expected a duplicates issue")
	}
}

func TestScore_NullTiers(t *testing.T) {
	tests := []struct {
		name      string
		nullCells int // out of 20 data cells
		severity  table.Severity
		penalty   int
	}{
		{"severe", 12, table.SeverityError, 25},
		{"high", 6, table.SeverityWarning, 10},
		{"moderate", 2, table.SeverityInfo, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := sheetWithNulls(10, 2, tt.nullCells)
			report := testScorer().Score([]*table.Sheet{sheet})

			var got *table.Issue
			for i := range report.Issues {
				if report.Issues[i].Category == table.IssueNulls && report.Issues[i].Column == "" {
					got = &report.Issues[i]
					break
				}
			}
			if got == nil {
				t.Fatal("expected a sheet-level nulls issue")
			}
			if got.Severity != tt.severity {
				t.Errorf("severity = %v, want %v", got.Severity, tt.severity)
			}
		})
	}
}

// Introducing a defect must never raise the score
func TestScore_Monotonic(t *testing.T) {
	kit := testkit.NewTestKit()

	base := testkit.Grid([]string{"id", "v", "w"})
	for i := 0; i < 20; i++ {
		base = append(base, []string{
			string(rune('a' + i)),
			testkit.NumericColumn(float64(i) * 1.5)[0],
			testkit.NumericColumn(float64(i) + 100)[0],
		})
	}

	clean := kit.MustCleanSheet("s", base)
	cleanScore := testScorer().Score([]*table.Sheet{clean}).Score

	// Append an exact duplicate of the first data row
	withDup := append(append([][]string{}, base...), base[1])
	dupSheet := kit.MustCleanSheet("s", withDup)
	dupScore := testScorer().Score([]*table.Sheet{dupSheet}).Score

	if dupScore > cleanScore {
		t.Errorf("adding a duplicate row raised the score: %d -> %d", cleanScore, dupScore)
	}
}

func TestScore_ZeroVarianceColumn(t *testing.T) {
	kit := testkit.NewTestKit()
	sheet := kit.MustCleanSheet("s", testkit.Grid(
		[]string{"id", "constant"},
		[]string{"1", "same"},
		[]string{"2", "same"},
		[]string{"3", "same"},
	))

	report := testScorer().Score([]*table.Sheet{sheet})

	found := false
	for _, issue := range report.Issues {
		if issue.Category == table.IssueVariance && issue.Column == "constant" {
			found = true
		}
	}
	if !found {
		t.Error("expected a zero-variance issue for column constant")
	}
}

func TestScore_NumericMiscast(t *testing.T) {
	// Values are digit-dominated but none parse as numbers, so the column
	// stays categorical and earns a type warning.
	sheet := &table.Sheet{
		Name:     "s",
		RowCount: 4,
		Columns: []table.Column{
			{
				Name:   "version",
				Type:   table.TypeCategorical,
				Labels: []string{"1.2.3", "1.2.4", "2.0.1", "2.1.0"},
				Null:   make([]bool, 4),
			},
		},
	}

	report := testScorer().Score([]*table.Sheet{sheet})

	found := false
	for _, issue := range report.Issues {
		if issue.Category == table.IssueTypes {
			found = true
		}
	}
	if !found {
		t.Error("expected a type miscast issue")
	}
}

func TestScore_ClampsAtZero(t *testing.T) {
	// Many bad sheets at once must clamp, not go negative
	var sheets []*table.Sheet
	for i := 0; i < 10; i++ {
		sheets = append(sheets, sheetWithNulls(2, 2, 3))
	}

	report := testScorer().Score(sheets)
	if report.Score < 0 {
		t.Errorf("Score = %d, must not be negative", report.Score)
	}
	if report.Band != table.BandCritical {
		t.Errorf("Band = %v, want critical", report.Band)
	}
}

func TestBandCutoffs(t *testing.T) {
	s := testScorer()
	tests := []struct {
		score int
		want  table.QualityBand
	}{
		{100, table.BandExcellent},
		{90, table.BandExcellent},
		{89, table.BandGood},
		{75, table.BandGood},
		{74, table.BandAcceptable},
		{60, table.BandAcceptable},
		{59, table.BandPoor},
		{40, table.BandPoor},
		{39, table.BandCritical},
		{0, table.BandCritical},
	}
	for _, tt := range tests {
		if got := s.band(tt.score); got != tt.want {
			t.Errorf("band(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

// Identical input must always produce an identical report
func TestScore_Deterministic(t *testing.T) {
	kit := testkit.NewTestKit()
	grid := kit.SalesGrid(30)

	a := testScorer().Score([]*table.Sheet{kit.MustCleanSheet("s", grid)})
	b := testScorer().Score([]*table.Sheet{kit.MustCleanSheet("s", grid)})

	if a.Score != b.Score || a.Band != b.Band || len(a.Issues) != len(b.Issues) {
		t.Errorf("reports differ: %+v vs %+v", a, b)
	}
	for i := range a.Issues {
		if a.Issues[i] != b.Issues[i] {
			t.Errorf("issue %d differs: %+v vs %+v", i, a.Issues[i], b.Issues[i])
		}
	}
}

// sheetWithNulls builds a sheet of rows x cols categorical cells with the
// first nullCells cells null, bypassing the cleaner so the exact null count
// is controlled.
func sheetWithNulls(rows, cols, nullCells int) *table.Sheet {
	sheet := &table.Sheet{Name: "nulls", RowCount: rows}
	placed := 0
	for c := 0; c < cols; c++ {
		col := table.Column{
			Name:   string(rune('a' + c)),
			Type:   table.TypeCategorical,
			Labels: make([]string, rows),
			Null:   make([]bool, rows),
		}
		for r := 0; r < rows; r++ {
			if placed < nullCells {
				col.Null[r] = true
				placed++
				continue
			}
			col.Labels[r] = string(rune('a'+c)) + string(rune('0'+r%10))
		}
		sheet.Columns = append(sheet.Columns, col)
	}
	return sheet
}
