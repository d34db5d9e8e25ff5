package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/nap-audit/internal/export"
	"github.com/sells-group/nap-audit/internal/model"
	"github.com/sells-group/nap-audit/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect audit run history",
	Long:  "Commands for listing and viewing recorded audit runs.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("runs"); err != nil {
			return err
		}

		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(status),
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run and its results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("runs"); err != nil {
			return err
		}

		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}
		results, err := st.ListResults(ctx, run.ID)
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(os.Stdout, runResponse{Run: run, Results: results})
		}
		formatRun(os.Stdout, run, results)
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("status", "", "filter by run status (running, complete, canceled, failed)")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")
	runsShowCmd.Flags().Bool("json", false, "print the run as JSON")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatRunsList writes a table of runs to out.
func formatRunsList(out io.Writer, runs []model.Run) {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		total, success, partial, fail, errs := "-", "-", "-", "-", "-"
		if r.Summary != nil {
			total = fmt.Sprint(r.Summary.Total)
			success = fmt.Sprint(r.Summary.Success)
			partial = fmt.Sprint(r.Summary.Partial)
			fail = fmt.Sprint(r.Summary.Fail)
			errs = fmt.Sprint(r.Summary.Error)
		}
		rows = append(rows, []string{
			shortID(r.ID),
			r.Input,
			string(r.Status),
			total, success, partial, fail, errs,
			r.CreatedAt.Format("2006-01-02 15:04"),
			formatDuration(r.UpdatedAt.Sub(r.CreatedAt)),
		})
	}
	right := export.AlignRight
	left := export.AlignLeft
	_, _ = fmt.Fprintln(out, export.RenderTable(
		[]string{"ID", "Input", "Status", "Total", "Success", "Partial", "Fail", "Error", "Created", "Duration"},
		rows,
		[]export.Align{left, left, left, right, right, right, right, right, left, right},
	))
}

// formatRun writes the run header, its summary and its results to out.
func formatRun(out io.Writer, run *model.Run, results []model.AuditResult) {
	_, _ = fmt.Fprintf(out, "Run:     %s\n", run.ID)
	_, _ = fmt.Fprintf(out, "Input:   %s\n", run.Input)
	_, _ = fmt.Fprintf(out, "Status:  %s\n", run.Status)
	_, _ = fmt.Fprintf(out, "Created: %s\n", run.CreatedAt.Format(time.RFC3339))
	if run.Summary != nil {
		_, _ = fmt.Fprintln(out, export.RenderSummary(*run.Summary))
	}
	if len(results) > 0 {
		_, _ = fmt.Fprintln(out, export.RenderResults(results))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		return "-"
	}
	return d.Round(time.Second).String()
}
