// Package model defines the records flowing through a NAP audit run.
package model

import "strings"

// DefaultCountry is appended to synthesized addresses that carry no country.
const DefaultCountry = "USA"

// InputRow is a raw row from a record source, before address synthesis.
type InputRow struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// BusinessRecord is an input business listing to be verified.
type BusinessRecord struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// NewBusinessRecord builds a BusinessRecord from a raw row. The address is
// the non-empty components (street, city, postal code, country) joined with
// ", ", followed by defaultCountry unless a component already equals it.
func NewBusinessRecord(row InputRow, defaultCountry string) BusinessRecord {
	return BusinessRecord{
		Name:    strings.TrimSpace(row.Name),
		Phone:   strings.TrimSpace(row.Phone),
		Address: FormatAddress(defaultCountry, row.Street, row.City, row.PostalCode, row.Country),
	}
}

// FormatAddress joins address components in the given order. Blank
// components and spreadsheet "nan" placeholders are skipped.
func FormatAddress(defaultCountry string, components ...string) string {
	parts := make([]string, 0, len(components)+1)
	hasCountry := false
	for _, c := range components {
		c = strings.TrimSpace(c)
		if c == "" || strings.EqualFold(c, "nan") {
			continue
		}
		if defaultCountry != "" && strings.EqualFold(c, defaultCountry) {
			hasCountry = true
		}
		parts = append(parts, c)
	}
	if defaultCountry != "" && !hasCountry {
		parts = append(parts, defaultCountry)
	}
	return strings.Join(parts, ", ")
}

// CandidateRecord is the directory's best match for a lookup query.
type CandidateRecord struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	ID      string `json:"id,omitempty"`
}

// IsEmpty reports whether the candidate carries no NAP data at all.
func (c CandidateRecord) IsEmpty() bool {
	return c.Name == "" && c.Phone == "" && c.Address == ""
}
