package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"tabwise/domain/core"
	"tabwise/domain/table"
	apperrors "tabwise/internal/errors"
	"tabwise/ports"
)

// NarrativeVars holds the user-supplied fields substituted into the
// narrative prompt template.
type NarrativeVars struct {
	ClientName string
	Period     string
	ReportType string
}

// DefaultTemplate is the built-in prompt. Callers may pass their own
// template; any {placeholder} the template omits is simply not substituted.
const DefaultTemplate = `You are a senior data analyst writing an executive report for {client_name}.

Report type: {report_type}
Period analyzed: {period}
Total records: {total_records}

A deterministic quantitative analysis of the data has already been computed.
Treat every number in it as ground truth; never recompute or contradict it.

{quantitative_analysis}

Representative sample of the underlying data:

{data_summary}

Write a clear narrative report in markdown with these sections:
## Executive Summary
## Key Findings
## Data Quality Notes
## Recommendations

Ground every claim in the quantitative analysis above. Do not invent figures.`

// BuildNarrativePrompt expands the template with the invocation's computed
// results. The data summary is capped row-wise so huge workbooks do not blow
// the prompt budget; the quantitative block is always included whole.
func (p *Pipeline) BuildNarrativePrompt(inv *Invocation, template string, vars NarrativeVars) string {
	totalRecords := 0
	for _, s := range inv.Sheets {
		totalRecords += s.RowCount
	}
	replacer := strings.NewReplacer(
		"{client_name}", orDefault(vars.ClientName, "the client"),
		"{period}", orDefault(vars.Period, "the reporting period"),
		"{report_type}", orDefault(vars.ReportType, "Data Analysis"),
		"{total_records}", fmt.Sprintf("%d", totalRecords),
		"{data_summary}", p.dataSummary(inv.Sheets),
		"{quantitative_analysis}", inv.Report,
	)
	return replacer.Replace(template)
}

// GenerateNarrative requests the narrative from the client. When onChunk is
// non-nil the response is streamed through it; otherwise a single completion
// call is made. A failure here never touches the invocation's computed
// results, the caller still has the full deterministic report.
func (p *Pipeline) GenerateNarrative(ctx context.Context, client ports.NarrativeClient, inv *Invocation, template string, vars NarrativeVars, onChunk ports.ChunkFunc) (string, *ports.NarrativeUsage, error) {
	if template == "" {
		template = DefaultTemplate
	}
	req := ports.NarrativeRequest{
		Model:     p.cfg.Narrative.Model,
		Prompt:    p.BuildNarrativePrompt(inv, template, vars),
		MaxTokens: p.cfg.Narrative.MaxTokens,
	}

	var (
		text  string
		usage *ports.NarrativeUsage
		err   error
	)
	if onChunk != nil {
		var full strings.Builder
		usage, err = client.Stream(ctx, req, func(chunk string) {
			full.WriteString(chunk)
			onChunk(chunk)
		})
		text = full.String()
	} else {
		text, usage, err = client.Complete(ctx, req)
	}
	if err != nil {
		log.Printf("[Narrative] generation failed for %s: %v", inv.ID, err)
		cause := fmt.Errorf("%w: %v", core.ErrNarrativeFailed, err)
		return "", nil, apperrors.ExternalServiceError("narrative", cause)
	}
	return text, usage, nil
}

// dataSummary renders each sheet as a compact markdown table, truncated to
// the payload row cap. Numbers and timestamps are shown in their cleaned
// form so the model sees what the analysis saw.
func (p *Pipeline) dataSummary(sheets []*table.Sheet) string {
	var b strings.Builder
	limit := p.cfg.Pipeline.MaxPayloadRows
	for _, sheet := range sheets {
		fmt.Fprintf(&b, "### %s (%d rows x %d columns)\n\n", sheet.Name, sheet.RowCount, sheet.ColumnCount())

		header := make([]string, len(sheet.Columns))
		for i, col := range sheet.Columns {
			header[i] = col.Name
		}
		b.WriteString("| " + strings.Join(header, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")

		rows := sheet.RowCount
		if rows > limit {
			rows = limit
		}
		for r := 0; r < rows; r++ {
			cells := make([]string, len(sheet.Columns))
			for i, col := range sheet.Columns {
				cells[i] = cellString(col, r)
			}
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
		if sheet.RowCount > limit {
			fmt.Fprintf(&b, "\n_Showing first %d of %d rows._\n", limit, sheet.RowCount)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func cellString(col table.Column, row int) string {
	if col.Null[row] {
		return ""
	}
	switch col.Type {
	case table.TypeNumeric:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", col.Number[row]), "0"), ".")
	case table.TypeTemporal:
		return col.Time[row].Format("2006-01-02")
	default:
		return col.Labels[row]
	}
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
