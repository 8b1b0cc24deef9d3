package analysis

import (
	"context"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"tabwise/domain/core"
	"tabwise/domain/table"
	"tabwise/internal/config"
)

// Analyzer computes the full deterministic Analysis Result for one or more
// cleaned sheets. It has no state beyond its configuration and statistic
// registry; invocations are independent and side-effect free.
//
// Per-column work may run in parallel (Workers > 1) but results are written
// into indexed slots, so output is identical to a sequential run.
type Analyzer struct {
	cfg      config.AnalysisConfig
	registry *Registry
}

// New creates an analyzer with the given config and built-in statistics
func New(cfg config.AnalysisConfig) *Analyzer {
	return &Analyzer{cfg: cfg, registry: NewRegistry()}
}

// Registry exposes the statistic registry so callers can add statistics
func (a *Analyzer) Registry() *Registry { return a.registry }

// Analyze produces the Analysis Result for the given sheets, in input
// order. A sheet with zero numeric and zero categorical columns fails the
// whole invocation with core.ErrInsufficientData; no partial result is
// returned in that case.
func (a *Analyzer) Analyze(ctx context.Context, sheets []*table.Sheet) (*table.AnalysisResult, error) {
	result := &table.AnalysisResult{}

	for _, sheet := range sheets {
		log.Printf("[Analyzer] analyzing sheet %q (%d rows, %d columns)", sheet.Name, sheet.RowCount, sheet.ColumnCount())
		sa, err := a.analyzeSheet(ctx, sheet)
		if err != nil {
			return nil, err
		}
		result.Sheets = append(result.Sheets, *sa)
	}

	result.Global = globalKPIs(sheets)
	return result, nil
}

func (a *Analyzer) analyzeSheet(ctx context.Context, sheet *table.Sheet) (*table.SheetAnalysis, error) {
	numeric := sheet.ColumnsOfType(table.TypeNumeric)
	categorical := sheet.ColumnsOfType(table.TypeCategorical)
	if len(numeric) == 0 && len(categorical) == 0 {
		return nil, core.NewInsufficientDataError(sheet.Name)
	}

	sa := &table.SheetAnalysis{
		Sheet:            sheet.Name,
		TotalRecords:     sheet.RowCount,
		CompletenessRate: sheet.Completeness() * 100,
		MissingValues:    sheet.MissingCells(),
	}

	sa.Numeric = make([]table.NumericKPI, len(numeric))
	sa.Distributions = make([]table.Distribution, len(numeric))
	sa.Categorical = make([]table.CategoricalKPI, len(categorical))

	if err := a.runColumns(ctx, sheet, sa, numeric, categorical); err != nil {
		return nil, err
	}

	sa.Aggregations = a.aggregations(sheet)
	sa.Correlations = a.correlations(sheet)
	sa.Trends = a.trends(sheet)
	sa.Anomalies = a.anomalies(sheet)
	sa.DomainKPIs = a.domainKPIs(sheet)
	return sa, nil
}

// runColumns fills the per-column KPI slots, in parallel when configured.
// Each goroutine owns exactly one output index, so no ordering or locking
// affects the result.
func (a *Analyzer) runColumns(ctx context.Context, sheet *table.Sheet, sa *table.SheetAnalysis, numeric, categorical []*table.Column) error {
	workers := a.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, col := range numeric {
		i, col := i, col
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sa.Numeric[i] = a.numericKPI(col)
			sa.Distributions[i] = a.distribution(col)
			return nil
		})
	}
	for i, col := range categorical {
		i, col := i, col
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sa.Categorical[i] = a.categoricalKPI(col, sheet.RowCount)
			return nil
		})
	}
	return g.Wait()
}

func globalKPIs(sheets []*table.Sheet) table.GlobalKPIs {
	g := table.GlobalKPIs{TotalSheets: len(sheets)}
	for _, sheet := range sheets {
		g.TotalRecords += sheet.RowCount
		g.TotalColumns += sheet.ColumnCount()
	}
	if len(sheets) > 0 {
		g.AvgRecordsPerSheet = float64(g.TotalRecords) / float64(len(sheets))
	}
	return g
}
