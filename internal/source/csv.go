package source

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nap-audit/internal/model"
)

// ReadCSV reads records from a CSV file whose first row is the header.
func ReadCSV(path string, m Mapping) ([]model.BusinessRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "csv: open file")
	}
	defer f.Close() //nolint:errcheck

	return ParseCSV(f, m)
}

// ParseCSV reads records from r. Rows may have a variable number of fields.
func ParseCSV(r io.Reader, m Mapping) ([]model.BusinessRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("csv: empty input")
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		rows = append(rows, record)
	}

	return toRecords(header, rows, m)
}
