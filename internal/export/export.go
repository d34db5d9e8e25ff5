// Package export writes audit results as CSV or JSON and renders run
// summaries for the terminal.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/nap-audit/internal/model"
)

// Format is an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name. Empty means csv.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", eris.Errorf("export: unknown format %q", s)
	}
}

// FormatForPath picks a format from the file extension, defaulting to csv.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// Rows flattens results into export rows.
func Rows(results []model.AuditResult) []model.ExportRow {
	rows := make([]model.ExportRow, len(results))
	for i, r := range results {
		rows[i] = r.Export()
	}
	return rows
}

// WriteCSV writes a header row followed by one row per result.
func WriteCSV(w io.Writer, results []model.AuditResult) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if err := enc.EncodeHeader(model.ExportRow{}); err != nil {
		return eris.Wrap(err, "export: encode csv header")
	}
	for _, row := range Rows(results) {
		if err := enc.Encode(row); err != nil {
			return eris.Wrap(err, "export: encode csv row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}

// WriteJSON writes the results as an indented JSON array.
func WriteJSON(w io.Writer, results []model.AuditResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Rows(results)); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	return nil
}

// Write encodes results in the given format.
func Write(w io.Writer, format Format, results []model.AuditResult) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, results)
	case FormatCSV, "":
		return WriteCSV(w, results)
	default:
		return eris.Errorf("export: unknown format %q", format)
	}
}

// WriteFile creates path and writes results to it.
func WriteFile(path string, format Format, results []model.AuditResult) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	if err := Write(f, format, results); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrap(err, "export: close file")
	}
	return nil
}
