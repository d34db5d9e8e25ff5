package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/nap-audit/internal/export"
	"github.com/sells-group/nap-audit/internal/model"
	"github.com/sells-group/nap-audit/internal/source"
)

var (
	auditInput  string
	auditOutput string
	auditFormat string
	auditLimit  int
	auditNoAI   bool
	auditDryRun bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit a spreadsheet of business listings",
	Long: `Reads businesses from a CSV or XLSX file, looks each one up in Google
Places and writes one NAP verdict per input row.

Examples:
  # Parse the input only
  nap-audit audit --input listings.xlsx --dry-run

  # Audit the first 10 rows without the AI tie-breaker
  nap-audit audit --input listings.csv --limit 10 --no-ai --output results.csv

  # JSON output to stdout
  nap-audit audit --input listings.csv --format json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		records, err := loadRecords(auditInput, auditLimit)
		if err != nil {
			return err
		}
		zap.L().Info("loaded records", zap.String("input", auditInput), zap.Int("records", len(records)))

		if auditDryRun {
			return printJSON(os.Stdout, records)
		}

		format, err := outputFormat(auditFormat, auditOutput)
		if err != nil {
			return err
		}
		if err := cfg.Validate("audit"); err != nil {
			return err
		}

		env, err := initAudit(ctx, cfg, auditNoAI)
		if err != nil {
			return err
		}
		defer env.Close()

		outcome, runErr := runAudit(ctx, env.Processor, env.Store, auditInput, records)
		if outcome == nil {
			return runErr
		}
		if runErr != nil {
			zap.L().Warn("audit interrupted, writing partial results",
				zap.Int("completed", len(outcome.Results)),
				zap.Int("total", len(records)),
				zap.Error(runErr),
			)
		}

		if err := writeResults(auditOutput, format, outcome.Results); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, export.RenderSummary(outcome.Summary))
		if outcome.RunID != "" {
			fmt.Fprintf(os.Stderr, "run id: %s\n", outcome.RunID)
		}
		return runErr
	},
}

// loadRecords reads the input file with the configured column mapping and
// applies limit when positive.
func loadRecords(path string, limit int) ([]model.BusinessRecord, error) {
	records, err := source.Open(path, source.MappingFromConfig(cfg.Input))
	if err != nil {
		return nil, eris.Wrap(err, "audit: read input")
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

// outputFormat resolves --format, falling back to the output extension.
func outputFormat(flag, output string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	return export.FormatForPath(output), nil
}

// writeResults writes to path, or to stdout when path is empty.
func writeResults(path string, format export.Format, results []model.AuditResult) error {
	if path == "" {
		return export.Write(os.Stdout, format, results)
	}
	if err := export.WriteFile(path, format, results); err != nil {
		return err
	}
	zap.L().Info("wrote results", zap.String("output", path), zap.Int("rows", len(results)))
	return nil
}

func init() {
	auditCmd.Flags().StringVar(&auditInput, "input", "", "input CSV or XLSX file (required)")
	auditCmd.Flags().StringVar(&auditOutput, "output", "", "output file (default stdout)")
	auditCmd.Flags().StringVar(&auditFormat, "format", "", "output format: csv or json (default from --output extension)")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 0, "audit at most N records (0 = all)")
	auditCmd.Flags().BoolVar(&auditNoAI, "no-ai", false, "disable the AI tie-breaker")
	auditCmd.Flags().BoolVar(&auditDryRun, "dry-run", false, "parse the input and print records without auditing")
	_ = auditCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(auditCmd)
}
