package model

import "strings"

// Status is the overall audit label for one record.
type Status string

// Classification labels, in decision order.
const (
	StatusAllMatch       Status = "SUCCESS: all fields match"
	StatusNameAddress    Status = "SUCCESS: name & address match"
	StatusNamePhone      Status = "PARTIAL: name & phone match"
	StatusAddressPhone   Status = "PARTIAL: address & phone match"
	StatusNameOnly       Status = "PARTIAL: name only"
	StatusHighSimilarity Status = "SUCCESS: high-similarity override"
	StatusInconsistent   Status = "FAIL: inconsistent"
	StatusNoResults      Status = "FAIL: no results"
)

const errorStatusPrefix = "ERROR: "

// ErrorStatus builds the terminal label for a failed lookup.
func ErrorStatus(msg string) Status {
	return Status(errorStatusPrefix + msg)
}

// Tier is the coarse category of a Status.
type Tier string

const (
	TierSuccess Tier = "SUCCESS"
	TierPartial Tier = "PARTIAL"
	TierFail    Tier = "FAIL"
	TierError   Tier = "ERROR"
	TierUnknown Tier = "UNKNOWN"
)

// Tiers lists the categories in report order.
var Tiers = []Tier{TierSuccess, TierPartial, TierFail, TierError}

// Tier returns the category encoded in the status prefix.
func (s Status) Tier() Tier {
	for _, t := range Tiers {
		if strings.HasPrefix(string(s), string(t)) {
			return t
		}
	}
	return TierUnknown
}

// Ambiguous reports whether the status warrants an AI second opinion.
func (s Status) Ambiguous() bool {
	t := s.Tier()
	return t == TierPartial || t == TierFail
}
