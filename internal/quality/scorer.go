package quality

import (
	"fmt"
	"strings"

	"tabwise/domain/table"
	"tabwise/internal/config"
)

// Scorer computes a 0-100 quality score and an issue list for cleaned
// sheets. It is a pure function of its input: identical sheets always
// produce an identical report.
//
// Scoring starts at 100 and subtracts the weighted penalties from
// config.QualityConfig. Every weight is monotonic: introducing a defect, or
// worsening one, never raises the score.
type Scorer struct {
	cfg config.QualityConfig
}

// New creates a scorer with the given weights
func New(cfg config.QualityConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score produces the quality report for one or more sheets. Issues are
// appended in sheet order, then column order, so the report is deterministic.
func (s *Scorer) Score(sheets []*table.Sheet) *table.QualityReport {
	report := &table.QualityReport{TotalSheets: len(sheets)}
	penalty := 0

	for _, sheet := range sheets {
		report.TotalRows += sheet.RowCount
		report.TotalColumns += sheet.ColumnCount()
		penalty += s.scoreSheet(sheet, report)
	}

	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	report.Score = score
	report.Band = s.band(score)
	return report
}

func (s *Scorer) scoreSheet(sheet *table.Sheet, report *table.QualityReport) int {
	cfg := s.cfg
	penalty := 0

	if sheet.RowCount == 0 {
		report.Issues = append(report.Issues, table.Issue{
			Severity: table.SeverityError,
			Category: table.IssueStructure,
			Sheet:    sheet.Name,
			Message:  fmt.Sprintf("sheet %q is empty", sheet.Name),
		})
		return cfg.PenaltyEmptySheet
	}

	if sheet.RowCount < cfg.MinRows {
		report.Issues = append(report.Issues, table.Issue{
			Severity: table.SeverityWarning,
			Category: table.IssueStructure,
			Sheet:    sheet.Name,
			Message:  fmt.Sprintf("sheet %q has only %d rows; results may not be representative", sheet.Name, sheet.RowCount),
		})
		penalty += cfg.PenaltyFewRows
	}

	// Sheet-wide null share
	nullShare := 1 - sheet.Completeness()
	switch {
	case nullShare > cfg.NullSevere:
		report.Issues = append(report.Issues, table.Issue{
			Severity: table.SeverityError,
			Category: table.IssueNulls,
			Sheet:    sheet.Name,
			Message:  fmt.Sprintf("sheet %q: %.1f%% of values are null", sheet.Name, nullShare*100),
		})
		penalty += cfg.PenaltyNullsSevere
	case nullShare > cfg.NullHigh:
		report.Issues = append(report.Issues, table.Issue{
			Severity: table.SeverityWarning,
			Category: table.IssueNulls,
			Sheet:    sheet.Name,
			Message:  fmt.Sprintf("sheet %q: %.1f%% of values are null", sheet.Name, nullShare*100),
		})
		penalty += cfg.PenaltyNullsHigh
	case nullShare > cfg.NullModerate:
		report.Issues = append(report.Issues, table.Issue{
			Severity: table.SeverityInfo,
			Category: table.IssueNulls,
			Sheet:    sheet.Name,
			Message:  fmt.Sprintf("sheet %q: %.1f%% of values are null", sheet.Name, nullShare*100),
		})
		penalty += cfg.PenaltyNullsModerate
	}

	// Per-column null ratio
	for i := range sheet.Columns {
		col := &sheet.Columns[i]
		if ratio := col.NullRatio(); ratio > cfg.ColumnNullRatio {
			report.Issues = append(report.Issues, table.Issue{
				Severity: table.SeverityWarning,
				Category: table.IssueNulls,
				Sheet:    sheet.Name,
				Column:   col.Name,
				Message:  fmt.Sprintf("column %q is %.0f%% null", col.Name, ratio*100),
			})
			penalty += cfg.PenaltyNullColumn
		}
	}

	// Duplicate rows
	if dups := duplicateRows(sheet); dups > 0 {
		share := float64(dups) / float64(sheet.RowCount)
		severity := table.SeverityInfo
		p := cfg.PenaltyDupsLow
		if share > cfg.DupHighShare {
			severity = table.SeverityWarning
			p = cfg.PenaltyDupsHigh
		}
		report.Issues = append(report.Issues, table.Issue{
			Severity: severity,
			Category: table.IssueDuplicates,
			Sheet:    sheet.Name,
			Message:  fmt.Sprintf("sheet %q: %d duplicate rows (%.1f%%)", sheet.Name, dups, share*100),
		})
		penalty += p
	}

	// Zero-variance columns
	for i := range sheet.Columns {
		col := &sheet.Columns[i]
		if col.NonNullCount() > 0 && col.DistinctCount() == 1 {
			report.Issues = append(report.Issues, table.Issue{
				Severity: table.SeverityInfo,
				Category: table.IssueVariance,
				Sheet:    sheet.Name,
				Column:   col.Name,
				Message:  fmt.Sprintf("column %q has a single constant value", col.Name),
			})
			penalty += cfg.PenaltyZeroVariance
		}
	}

	// Type-inference near misses: categorical columns whose values look numeric
	for i := range sheet.Columns {
		col := &sheet.Columns[i]
		if col.Type != table.TypeCategorical {
			continue
		}
		if numericLooking(col) {
			report.Issues = append(report.Issues, table.Issue{
				Severity: table.SeverityWarning,
				Category: table.IssueTypes,
				Sheet:    sheet.Name,
				Column:   col.Name,
				Message:  fmt.Sprintf("column %q: possible numeric miscast (values look numeric but column stayed categorical)", col.Name),
			})
			penalty += cfg.PenaltyTypeMiscast
		}
	}

	return penalty
}

// band maps a clamped score onto the qualitative rating
func (s *Scorer) band(score int) table.QualityBand {
	cfg := s.cfg
	switch {
	case score >= cfg.BandExcellent:
		return table.BandExcellent
	case score >= cfg.BandGood:
		return table.BandGood
	case score >= cfg.BandAcceptable:
		return table.BandAcceptable
	case score >= cfg.BandPoor:
		return table.BandPoor
	default:
		return table.BandCritical
	}
}

// duplicateRows counts rows that repeat an earlier row exactly (on raw labels)
func duplicateRows(sheet *table.Sheet) int {
	seen := make(map[string]struct{}, sheet.RowCount)
	dups := 0
	var b strings.Builder
	for row := 0; row < sheet.RowCount; row++ {
		b.Reset()
		for i := range sheet.Columns {
			b.WriteString(sheet.Columns[i].Labels[row])
			b.WriteByte(0x1f)
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// numericLooking reports whether every displayed character pattern of the
// column is digit-dominated, i.e. the column probably failed numeric
// promotion on formatting noise alone.
func numericLooking(col *table.Column) bool {
	checked := 0
	numeric := 0
	for i, v := range col.Labels {
		if col.Null[i] || v == "" {
			continue
		}
		checked++
		clean := strings.Map(func(r rune) rune {
			switch r {
			case ',', '.', '-', ' ':
				return -1
			}
			return r
		}, v)
		if clean != "" && isDigits(clean) {
			numeric++
		}
		if checked >= 20 {
			break
		}
	}
	return checked > 0 && float64(numeric)/float64(checked) > 0.8
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
