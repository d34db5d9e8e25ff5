// Package source reads business records from CSV and XLSX files.
package source

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nap-audit/internal/config"
	"github.com/sells-group/nap-audit/internal/model"
)

// Mapping names the input columns holding each record field.
type Mapping struct {
	Name           string
	Phone          string
	Street         string
	City           string
	PostalCode     string
	Country        string
	DefaultCountry string
	// Sheet selects an XLSX sheet by name. Empty means the first sheet.
	Sheet string
}

// DefaultMapping returns the column layout of the standard listing export.
func DefaultMapping() Mapping {
	return Mapping{
		Name:           "CompanyName",
		Phone:          "WorkNumber",
		Street:         "Address",
		City:           "City",
		PostalCode:     "ZipCode",
		Country:        "Country",
		DefaultCountry: model.DefaultCountry,
	}
}

// MappingFromConfig builds a Mapping from the input config section. Blank
// column names fall back to the defaults.
func MappingFromConfig(cfg config.InputConfig) Mapping {
	m := DefaultMapping()
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&m.Name, cfg.NameColumn)
	set(&m.Phone, cfg.PhoneColumn)
	set(&m.Street, cfg.StreetColumn)
	set(&m.City, cfg.CityColumn)
	set(&m.PostalCode, cfg.PostalCodeColumn)
	set(&m.Country, cfg.CountryColumn)
	set(&m.DefaultCountry, cfg.DefaultCountry)
	m.Sheet = strings.TrimSpace(cfg.Sheet)
	return m
}

// Open reads records from path, choosing the reader by file extension.
func Open(path string, m Mapping) ([]model.BusinessRecord, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		return ReadCSV(path, m)
	case ".xlsx":
		return ReadXLSX(path, m)
	default:
		return nil, eris.Errorf("source: unsupported file type %q", ext)
	}
}

// Records converts raw rows into business records.
func Records(rows []model.InputRow, defaultCountry string) []model.BusinessRecord {
	out := make([]model.BusinessRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.NewBusinessRecord(r, defaultCountry))
	}
	return out
}

// columns resolves mapping names against a header row.
type columns struct {
	name, phone, street, city, postal, country int
}

func resolve(header []string, m Mapping) (columns, error) {
	idx := make(map[string]int, len(header))
	fold := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
		if _, ok := fold[strings.ToLower(h)]; !ok {
			fold[strings.ToLower(h)] = i
		}
	}
	find := func(name string) int {
		if name == "" {
			return -1
		}
		if i, ok := idx[name]; ok {
			return i
		}
		if i, ok := fold[strings.ToLower(name)]; ok {
			return i
		}
		return -1
	}

	c := columns{
		name:    find(m.Name),
		phone:   find(m.Phone),
		street:  find(m.Street),
		city:    find(m.City),
		postal:  find(m.PostalCode),
		country: find(m.Country),
	}
	if c.name < 0 {
		return c, eris.Errorf("source: missing column %q", m.Name)
	}
	return c, nil
}

// toRecords maps data rows (header excluded) to records. Rows with no
// mapped values are skipped.
func toRecords(header []string, rows [][]string, m Mapping) ([]model.BusinessRecord, error) {
	c, err := resolve(header, m)
	if err != nil {
		return nil, err
	}

	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		v := strings.TrimSpace(row[i])
		if strings.EqualFold(v, "nan") {
			return ""
		}
		return v
	}

	out := make([]model.BusinessRecord, 0, len(rows))
	for _, row := range rows {
		in := model.InputRow{
			Name:       cell(row, c.name),
			Phone:      cell(row, c.phone),
			Street:     cell(row, c.street),
			City:       cell(row, c.city),
			PostalCode: cell(row, c.postal),
			Country:    cell(row, c.country),
		}
		if in == (model.InputRow{}) {
			continue
		}
		out = append(out, model.NewBusinessRecord(in, m.DefaultCountry))
	}
	return out, nil
}
