package app

import (
	"context"
	"errors"
	"log"

	"tabwise/adapters/tabular"
	"tabwise/domain/core"
	"tabwise/domain/table"
	"tabwise/internal/analysis"
	"tabwise/internal/cleaner"
	"tabwise/internal/config"
	apperrors "tabwise/internal/errors"
	"tabwise/internal/quality"
	"tabwise/internal/report"
)

// Invocation is the complete deterministic output of one pipeline run.
// Each submitted file gets its own Invocation; nothing is shared between
// invocations and nothing here mutates after Run returns.
type Invocation struct {
	ID          core.InvocationID
	Filename    string
	Sheets      []*table.Sheet
	Quality     *table.QualityReport
	Analysis    *table.AnalysisResult
	Report      string // assembled markdown block
	Fingerprint core.Fingerprint
}

// Truncated reports whether any sheet was truncated by the row cap
func (inv *Invocation) Truncated() bool {
	for _, s := range inv.Sheets {
		if s.Truncated {
			return true
		}
	}
	return false
}

// RowsDropped sums the rows removed by truncation across sheets
func (inv *Invocation) RowsDropped() int {
	total := 0
	for _, s := range inv.Sheets {
		total += s.RowsDropped
	}
	return total
}

// Pipeline runs Read -> Clean -> Score -> Analyze -> Assemble synchronously
// for one submitted file. The narrative step is not part of Run: it is
// issued separately, after the full result exists, so an external failure
// can never invalidate the deterministic output.
type Pipeline struct {
	cfg       config.Config
	reader    *tabular.Reader
	cleaner   *cleaner.Cleaner
	scorer    *quality.Scorer
	analyzer  *analysis.Analyzer
	assembler *report.Assembler
}

// NewPipeline wires the pipeline stages from config
func NewPipeline(cfg config.Config) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		reader:    tabular.NewReader(),
		cleaner:   cleaner.New(cfg.Pipeline),
		scorer:    quality.New(cfg.Quality),
		analyzer:  analysis.New(cfg.Analysis),
		assembler: report.NewAssembler(cfg.Analysis.TopValueCount),
	}
}

// Analyzer exposes the analyzer so callers can register extra statistics
func (p *Pipeline) Analyzer() *analysis.Analyzer { return p.analyzer }

// Run processes one file supplied as an in-memory buffer. Empty sheets in a
// multi-sheet workbook are skipped; the run fails with core.ErrEmptySheet
// only when no sheet survives cleaning.
func (p *Pipeline) Run(ctx context.Context, content []byte, filename string) (*Invocation, error) {
	raw, err := p.reader.Read(content, filename)
	if err != nil {
		return nil, classify(err)
	}

	var sheets []*table.Sheet
	var lastEmpty error
	for _, rs := range raw {
		sheet, err := p.cleaner.Clean(rs.Name, rs.Rows)
		if err != nil {
			if errors.Is(err, core.ErrEmptySheet) {
				log.Printf("[Pipeline] skipping empty sheet %q in %q", rs.Name, filename)
				lastEmpty = err
				continue
			}
			return nil, classify(err)
		}
		sheets = append(sheets, sheet)
	}
	if len(sheets) == 0 {
		if lastEmpty != nil {
			return nil, classify(lastEmpty)
		}
		return nil, classify(core.NewEmptySheetError(filename))
	}

	qualityReport := p.scorer.Score(sheets)

	result, err := p.analyzer.Analyze(ctx, sheets)
	if err != nil {
		return nil, classify(err)
	}

	assembled := p.assembler.Assemble(result, qualityReport)

	inv := &Invocation{
		ID:          core.NewInvocationID(),
		Filename:    filename,
		Sheets:      sheets,
		Quality:     qualityReport,
		Analysis:    result,
		Report:      assembled,
		Fingerprint: core.NewFingerprint([]byte(assembled)),
	}
	log.Printf("[Pipeline] %s analyzed: %d sheets, quality %d (%s)",
		filename, len(sheets), qualityReport.Score, qualityReport.Band)
	return inv, nil
}

// ReportHTML renders the assembled markdown block as HTML
func (p *Pipeline) ReportHTML(inv *Invocation) string {
	return report.RenderHTML(inv.Report)
}

// classify attaches the application error code matching the domain sentinel
// so callers can branch on the code without unwrapping. The sentinel stays
// reachable through errors.Is.
func classify(err error) error {
	switch {
	case errors.Is(err, core.ErrUnsupportedFormat):
		return apperrors.WithCode(apperrors.CodeUnsupportedFormat, err)
	case errors.Is(err, core.ErrEmptySheet):
		return apperrors.WithCode(apperrors.CodeEmptySheet, err)
	case errors.Is(err, core.ErrInsufficientData):
		return apperrors.WithCode(apperrors.CodeInsufficientData, err)
	default:
		return apperrors.Wrap(err, "pipeline run failed")
	}
}
