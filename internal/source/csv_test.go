package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/nap-audit/internal/model"
)

func TestParseCSV_DefaultColumns(t *testing.T) {
	input := "CompanyName,WorkNumber,Address,City,ZipCode,Country\n" +
		"Joe's Pizza,217-555-0100,123 Main St,Springfield,62704,USA\n" +
		"\"Smith & Sons, Inc.\",(312) 555-0142,400 Lake Shore Dr,Chicago,60611,\n"

	recs, err := ParseCSV(strings.NewReader(input), DefaultMapping())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, model.BusinessRecord{
		Name:    "Joe's Pizza",
		Phone:   "217-555-0100",
		Address: "123 Main St, Springfield, 62704, USA",
	}, recs[0])
	assert.Equal(t, "Smith & Sons, Inc.", recs[1].Name)
	assert.Equal(t, "400 Lake Shore Dr, Chicago, 60611, USA", recs[1].Address)
}

func TestParseCSV_TrimsHeadersAndStripsBOM(t *testing.T) {
	input := "\ufeff CompanyName , WorkNumber \nJoe's Pizza,555-0100\n"

	recs, err := ParseCSV(strings.NewReader(input), DefaultMapping())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Joe's Pizza", recs[0].Name)
	assert.Equal(t, "555-0100", recs[0].Phone)
	assert.Equal(t, "USA", recs[0].Address)
}

func TestParseCSV_NanAndBlankRows(t *testing.T) {
	input := "CompanyName,WorkNumber,Address,City\n" +
		"Joe's Pizza,nan,NaN,Springfield\n" +
		",,,\n" +
		"Short Row\n"

	recs, err := ParseCSV(strings.NewReader(input), DefaultMapping())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Empty(t, recs[0].Phone)
	assert.Equal(t, "Springfield, USA", recs[0].Address)
	assert.Equal(t, "Short Row", recs[1].Name)
}

func TestParseCSV_CustomMapping(t *testing.T) {
	input := "Business,Tel\nJoe's Pizza,555-0100\n"
	m := DefaultMapping()
	m.Name = "Business"
	m.Phone = "Tel"
	m.DefaultCountry = ""

	recs, err := ParseCSV(strings.NewReader(input), m)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, model.BusinessRecord{Name: "Joe's Pizza", Phone: "555-0100"}, recs[0])
}

func TestParseCSV_Errors(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""), DefaultMapping())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty input")

	_, err = ParseCSV(strings.NewReader("Name,Phone\nx,y\n"), DefaultMapping())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("CompanyName\nA\nB\n"), 0o644))

	recs, err := ReadCSV(path, DefaultMapping())
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	_, err = ReadCSV(filepath.Join(t.TempDir(), "missing.csv"), DefaultMapping())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv: open file")
}
