package coerce

import (
	"math"
	"testing"
	"time"

	"tabwise/domain/table"
)

func TestParseNumeric_Formats(t *testing.T) {
	c := New(DefaultConfig())

	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"42", 42, true},
		{"-3.5", -3.5, true},
		{"  7  ", 7, true},
		{"$1,234.56", 1234.56, true},
		{"€1.234,56", 1234.56, true},
		{"1 234,56", 1234.56, true},
		{"(123)", -123, true},
		{"($99.50)", -99.5, true},
		{"45%", 45, true},
		{"1,234", 1234, true},
		{"3,5", 3.5, true},
		{"USD 500", 500, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12abc", 0, false},
		{"--5", 0, false},
	}

	for _, tt := range tests {
		got, ok := c.ParseNumeric(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseNumeric(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseNumeric(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseTime_Formats(t *testing.T) {
	c := New(DefaultConfig())

	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"2024-03-15T10:30:00Z", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"2024-03-15 10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"15/03/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"15-Jan-2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"not a date", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := c.ParseTime(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseTime(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseTime(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// Ambiguous day/month values must resolve day-first, every time
func TestParseTime_AmbiguousDayFirst(t *testing.T) {
	c := New(DefaultConfig())

	got, ok := c.ParseTime("02/03/2024")
	if !ok {
		t.Fatal("expected 02/03/2024 to parse")
	}
	want := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("02/03/2024 = %v, want day-first %v", got, want)
	}
}

func TestNormalizeLabel(t *testing.T) {
	c := New(DefaultConfig())

	tests := []struct {
		input string
		want  string
	}{
		{"  hello  world  ", "hello world"},
		{"tab\there", "tab here"},
		{"MiXeD Case", "MiXeD Case"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := c.NormalizeLabel(tt.input); got != tt.want {
			t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAnalyzeColumn_Thresholds(t *testing.T) {
	c := New(DefaultConfig())

	tests := []struct {
		name   string
		values []string
		want   table.ColumnType
	}{
		{
			name:   "all numeric",
			values: []string{"1", "2", "3.5", "4"},
			want:   table.TypeNumeric,
		},
		{
			name:   "numeric above threshold with stray text",
			values: []string{"1", "2", "3", "4", "n/a"},
			want:   table.TypeNumeric,
		},
		{
			name:   "numeric below threshold",
			values: []string{"1", "2", "red", "blue", "green"},
			want:   table.TypeCategorical,
		},
		{
			name:   "temporal",
			values: []string{"2024-01-01", "2024-01-02", "2024-01-03"},
			want:   table.TypeTemporal,
		},
		{
			name:   "blanks excluded from the ratio denominator",
			values: []string{"1", "2", "", "", ""},
			want:   table.TypeNumeric,
		},
		{
			name:   "all blank",
			values: []string{"", "", ""},
			want:   table.TypeUnknown,
		},
		{
			name:   "plain text",
			values: []string{"alpha", "beta", "gamma"},
			want:   table.TypeCategorical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := c.AnalyzeColumn(tt.values)
			if a.Recommended != tt.want {
				t.Errorf("AnalyzeColumn(%v).Recommended = %v, want %v", tt.values, a.Recommended, tt.want)
			}
		})
	}
}

// Numeric must win when a column clears both thresholds
func TestAnalyzeColumn_NumericBeatsTemporal(t *testing.T) {
	c := New(DefaultConfig())

	// Plain integers also fail every time format, so force the tie with
	// values that parse both ways is not possible with the fixed format
	// list; assert precedence on the decision logic instead.
	a := c.AnalyzeColumn([]string{"1", "2", "3"})
	if a.Recommended != table.TypeNumeric {
		t.Errorf("expected numeric, got %v", a.Recommended)
	}
	if a.NumericRatio != 1.0 {
		t.Errorf("NumericRatio = %v, want 1.0", a.NumericRatio)
	}
}
