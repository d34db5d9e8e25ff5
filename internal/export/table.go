package export

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/sells-group/nap-audit/internal/model"
)

// Align is a column alignment for RenderTable.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// RenderTable renders rows under headers as a rounded box table. Short rows
// are padded with blanks.
func RenderTable(headers []string, rows [][]string, aligns []Align) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// RenderSummary renders per-tier counts for a run.
func RenderSummary(s model.Summary) string {
	rows := [][]string{
		{"Total records", fmt.Sprint(s.Total)},
		{"Successful", fmt.Sprint(s.Success)},
		{"Partial", fmt.Sprint(s.Partial)},
		{"Failed", fmt.Sprint(s.Fail)},
		{"Errors", fmt.Sprint(s.Error)},
	}
	return RenderTable([]string{"Outcome", "Count"}, rows, []Align{AlignLeft, AlignRight})
}

// RenderResults renders one line per result with its status.
func RenderResults(results []model.AuditResult) string {
	rows := make([][]string, 0, len(results))
	for i, r := range results {
		ai := ""
		if r.AIConfirmed != nil {
			ai = "no"
			if *r.AIConfirmed {
				ai = "yes"
			}
		}
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			r.Business.Name,
			r.Candidate.Name,
			string(r.Status),
			ai,
		})
	}
	return RenderTable(
		[]string{"#", "Business", "Directory Name", "Status", "AI"},
		rows,
		[]Align{AlignRight},
	)
}
