package coerce

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tabwise/domain/table"
)

// Config defines the coercion thresholds
type Config struct {
	NumericThreshold  float64 `json:"numeric_threshold"`  // share of non-blank values that must parse as numbers
	TemporalThreshold float64 `json:"temporal_threshold"` // share of non-blank values that must parse as timestamps
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		NumericThreshold:  0.8,
		TemporalThreshold: 0.8,
	}
}

// Coercer handles deterministic type coercion of raw cell text.
// Parsing is attempted numeric first, then temporal; anything else stays
// categorical text.
type Coercer struct {
	config Config
}

// New creates a coercer with the given config
func New(config Config) *Coercer {
	return &Coercer{config: config}
}

// timeFormats are tried in order. The day-first form is listed before the
// month-first form because the source data is predominantly European.
var timeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
	"02-Jan-2006",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// currency markers stripped before numeric parsing
var currencySymbols = []string{"$", "€", "£", "¥", "USD", "EUR", "GBP"}

// ParseNumeric attempts to parse raw cell text as a number. It tolerates
// currency symbols, percent signs, parentheses negatives and both US
// (1,234.56) and European (1.234,56 / 1 234,56) separator conventions.
func (c *Coercer) ParseNumeric(raw string) (float64, bool) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return 0, false
	}

	// Parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range currencySymbols {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.ReplaceAll(cleanVal, "%", "")
	cleanVal = strings.TrimSpace(cleanVal)
	if cleanVal == "" {
		return 0, false
	}

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		// Mixed separators: the last comma with at most two trailing digits
		// marks a European decimal, otherwise commas are thousands.
		commaIdx := strings.LastIndex(cleanVal, ",")
		afterComma := cleanVal[commaIdx+1:]
		if len(afterComma) <= 2 && isDigits(afterComma) {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
		}
	case hasComma:
		// Comma only: decimal when it looks like one, thousands otherwise.
		commaIdx := strings.LastIndex(cleanVal, ",")
		afterComma := cleanVal[commaIdx+1:]
		if strings.Count(cleanVal, ",") == 1 && len(afterComma) != 3 && isDigits(afterComma) {
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		}
	default:
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// ParseTime attempts to parse raw cell text as a timestamp using the fixed
// format list. Formats are tried in order; the first match wins, keeping the
// result deterministic for ambiguous inputs.
func (c *Coercer) ParseTime(raw string) (time.Time, bool) {
	strVal := strings.TrimSpace(raw)
	if strVal == "" {
		return time.Time{}, false
	}

	for _, format := range timeFormats {
		if t, err := time.Parse(format, strVal); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// NormalizeLabel trims and collapses internal whitespace, and strips control
// characters. Case is preserved so categorical values display as entered.
func (c *Coercer) NormalizeLabel(s string) string {
	s = strings.TrimSpace(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
	return s
}

// Analysis contains the results of the per-column type distribution scan
type Analysis struct {
	Total         int              `json:"total"`
	NonBlank      int              `json:"non_blank"`
	NumericCount  int              `json:"numeric_count"`
	TemporalCount int              `json:"temporal_count"`
	NumericRatio  float64          `json:"numeric_ratio"`
	TemporalRatio float64          `json:"temporal_ratio"`
	Recommended   table.ColumnType `json:"recommended"`
}

// AnalyzeColumn scans all values of a column and recommends a type.
// Numeric wins over temporal when both clear their threshold, matching the
// attempt order of ParseNumeric/ParseTime.
func (c *Coercer) AnalyzeColumn(values []string) Analysis {
	a := Analysis{Total: len(values)}

	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		a.NonBlank++
		if _, ok := c.ParseNumeric(v); ok {
			a.NumericCount++
		}
		if _, ok := c.ParseTime(v); ok {
			a.TemporalCount++
		}
	}

	if a.NonBlank == 0 {
		a.Recommended = table.TypeUnknown
		return a
	}

	a.NumericRatio = float64(a.NumericCount) / float64(a.NonBlank)
	a.TemporalRatio = float64(a.TemporalCount) / float64(a.NonBlank)

	switch {
	case a.NumericRatio >= c.config.NumericThreshold:
		a.Recommended = table.TypeNumeric
	case a.TemporalRatio >= c.config.TemporalThreshold:
		a.Recommended = table.TypeTemporal
	default:
		a.Recommended = table.TypeCategorical
	}
	return a
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
