package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/nap-audit/internal/model"
)

var header = []string{
	"Input Business Name", "Input Phone", "Input Address",
	"API Name", "API Phone", "API Address",
	"Name Match", "Address Match", "Phone Match",
	"Name Similarity", "Address Similarity", "Phone Similarity",
	"Overall NAP Status",
}

func sampleResults() []model.AuditResult {
	yes := true
	return []model.AuditResult{
		{
			Business:  model.BusinessRecord{Name: "Joe's Pizza", Phone: "217-555-0100", Address: "123 Main St, Springfield, USA"},
			Candidate: model.CandidateRecord{Name: "Joe's Pizza LLC", Phone: "(217) 555-0100", Address: "123 Main Street, Springfield, IL"},
			Name:      model.FieldMatch{Matched: true, Score: 0.8571428},
			Address:   model.FieldMatch{Matched: true, Score: 0.9},
			Phone:     model.FieldMatch{Matched: true, Score: 1},
			Status:    model.StatusAllMatch,
		},
		{
			Business:    model.BusinessRecord{Name: "Smith, Jones & Co", Phone: "555-0100", Address: "9 Side Rd, USA"},
			Candidate:   model.CandidateRecord{Name: "Smith Jones", Phone: "2175550100", Address: "1 Elm St"},
			Name:        model.FieldMatch{Matched: true, Score: 0.75},
			Phone:       model.FieldMatch{Matched: true, Score: 0.9},
			Status:      model.StatusNamePhone,
			AIConfirmed: &yes,
		},
		model.NoResults(model.BusinessRecord{Name: "Nowhere Diner"}),
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatCSV, "csv": FormatCSV, " JSON ": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "xml"`)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForPath("out/results.JSON"))
	assert.Equal(t, FormatCSV, FormatForPath("out/results.csv"))
	assert.Equal(t, FormatCSV, FormatForPath("results"))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResults()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, header, records[0])

	first := records[1]
	assert.Equal(t, "Joe's Pizza", first[0])
	assert.Equal(t, "Joe's Pizza LLC", first[3])
	assert.Equal(t, []string{"Yes", "Yes", "Yes"}, first[6:9])
	nameScore, err := strconv.ParseFloat(first[9], 64)
	require.NoError(t, err)
	assert.InDelta(t, 0.857, nameScore, 1e-9)
	assert.Equal(t, "SUCCESS: all fields match", first[12])

	second := records[2]
	assert.Equal(t, "Smith, Jones & Co", second[0])
	assert.Equal(t, []string{"Yes", "No", "Yes"}, second[6:9])
	assert.Equal(t, "PARTIAL: name & phone match", second[12])

	third := records[3]
	assert.Equal(t, "", third[3])
	assert.Equal(t, []string{"No", "No", "No"}, third[6:9])
	assert.Equal(t, "FAIL: no results", third[12])
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(header, ",")+"\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResults()))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "Joe's Pizza", rows[0]["input_business_name"])
	assert.Equal(t, "Yes", rows[0]["name_match"])
	assert.InDelta(t, 0.857, rows[0]["name_similarity"], 1e-9)
	assert.Equal(t, "FAIL: no results", rows[2]["overall_nap_status"])
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("xml"), nil)
	require.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "out.csv")
	require.NoError(t, WriteFile(csvPath, FormatCSV, sampleResults()))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Input Business Name,"))

	jsonPath := filepath.Join(dir, "out.json")
	require.NoError(t, WriteFile(jsonPath, FormatJSON, sampleResults()))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "["))

	err = WriteFile(filepath.Join(dir, "missing", "out.csv"), FormatCSV, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export: create file")
}
