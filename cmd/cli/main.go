package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"tabwise/adapters/llm"
	"tabwise/app"
	"tabwise/internal/config"
	apperrors "tabwise/internal/errors"
	"tabwise/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Optional .env, real env always wins
	if err := godotenv.Load(); err == nil {
		log.Printf("[CLI] loaded configuration from .env")
	}

	rootCmd := &cobra.Command{
		Use:   "tabwise",
		Short: "Deterministic quantitative analysis of tabular files",
	}

	rootCmd.AddCommand(newAnalyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var (
		outPath      string
		asHTML       bool
		withNarr     bool
		stream       bool
		clientName   string
		period       string
		reportType   string
		templatePath string
	)

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a CSV or Excel file and emit the quantitative report",
		Long: `Run the full pipeline over one file: type inference and cleaning,
quality scoring, quantitative analysis, report assembly.

Example: tabwise analyze sales.xlsx --narrative --client "Acme Corp" --period "Q2 2025"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			path := args[0]
			content, err := os.ReadFile(path)
			if err != nil {
				return apperrors.WithCode(apperrors.CodeInvalidInput,
					apperrors.Wrapf(err, "reading %s", path))
			}

			pipeline := app.NewPipeline(*cfg)
			inv, err := pipeline.Run(cmd.Context(), content, filepath.Base(path))
			if err != nil {
				return err
			}

			output := inv.Report
			if asHTML {
				output = pipeline.ReportHTML(inv)
			}

			if withNarr {
				narrative, usage, err := runNarrative(cmd, pipeline, inv, cfg, templatePath, app.NarrativeVars{
					ClientName: clientName,
					Period:     period,
					ReportType: reportType,
				}, stream)
				if err != nil {
					// Computed results stand on their own; report the failure and move on
					fmt.Fprintf(os.Stderr, "narrative generation failed (%s): %v\n", apperrors.GetCode(err), err)
				} else if !stream {
					output = narrative + "\n\n---\n\n" + output
					if usage != nil {
						log.Printf("[CLI] narrative usage: %d in / %d out tokens, $%.4f",
							usage.InputTokens, usage.OutputTokens, usage.CostUSD)
					}
				}
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(output), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", outPath, err)
				}
				log.Printf("[CLI] report written to %s (fingerprint %s)", outPath, inv.Fingerprint.Short())
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Render the report as HTML")
	cmd.Flags().BoolVar(&withNarr, "narrative", false, "Generate an LLM narrative alongside the computed report")
	cmd.Flags().BoolVar(&stream, "stream", false, "Stream the narrative to stdout as it is generated")
	cmd.Flags().StringVar(&clientName, "client", "", "Client name substituted into the narrative prompt")
	cmd.Flags().StringVar(&period, "period", "", "Reporting period substituted into the narrative prompt")
	cmd.Flags().StringVar(&reportType, "report-type", "", "Report type substituted into the narrative prompt")
	cmd.Flags().StringVar(&templatePath, "template", "", "Path to a custom narrative prompt template")

	return cmd
}

func runNarrative(cmd *cobra.Command, pipeline *app.Pipeline, inv *app.Invocation, cfg *config.Config, templatePath string, vars app.NarrativeVars, stream bool) (string, *ports.NarrativeUsage, error) {
	client, err := llm.NewClient(cfg.Narrative)
	if err != nil {
		return "", nil, err
	}

	template := ""
	if templatePath != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			return "", nil, apperrors.InvalidInput(fmt.Sprintf("template %s is not readable: %v", templatePath, err))
		}
		template = string(raw)
	}

	var onChunk ports.ChunkFunc
	if stream {
		out := cmd.OutOrStdout()
		onChunk = func(chunk string) {
			fmt.Fprint(out, chunk)
		}
	}

	text, usage, err := pipeline.GenerateNarrative(cmd.Context(), client, inv, template, vars, onChunk)
	if err != nil {
		return "", nil, err
	}
	if stream && !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return text, usage, nil
}
