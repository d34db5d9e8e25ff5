package model

import (
	"math"
	"time"
)

// FieldMatch is the outcome of comparing one NAP field.
type FieldMatch struct {
	Matched bool    `json:"matched"`
	Score   float64 `json:"score"`
}

// AuditResult is the verdict for one input record.
type AuditResult struct {
	Business  BusinessRecord  `json:"business"`
	Candidate CandidateRecord `json:"candidate"`
	Name      FieldMatch      `json:"name"`
	Address   FieldMatch      `json:"address"`
	Phone     FieldMatch      `json:"phone"`
	Status    Status          `json:"status"`

	// AIConfirmed records the advisory tie-breaker verdict when one was
	// requested. It never changes Status.
	AIConfirmed *bool `json:"ai_confirmed,omitempty"`
}

// NoResults is the terminal result for a record the directory did not find.
func NoResults(b BusinessRecord) AuditResult {
	return AuditResult{Business: b, Status: StatusNoResults}
}

// Errored is the terminal result for a record whose lookup failed.
func Errored(b BusinessRecord, err error) AuditResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return AuditResult{Business: b, Status: ErrorStatus(msg)}
}

// Summary counts results per tier.
type Summary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Partial int `json:"partial"`
	Fail    int `json:"fail"`
	Error   int `json:"error"`
}

// Summarize tallies results by tier.
func Summarize(results []AuditResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status.Tier() {
		case TierSuccess:
			s.Success++
		case TierPartial:
			s.Partial++
		case TierFail:
			s.Fail++
		case TierError:
			s.Error++
		}
	}
	return s
}

// Count returns the number of results in tier t.
func (s Summary) Count(t Tier) int {
	switch t {
	case TierSuccess:
		return s.Success
	case TierPartial:
		return s.Partial
	case TierFail:
		return s.Fail
	case TierError:
		return s.Error
	default:
		return 0
	}
}

// ExportRow is the flat, externally visible form of an AuditResult.
type ExportRow struct {
	InputName         string  `csv:"Input Business Name" json:"input_business_name"`
	InputPhone        string  `csv:"Input Phone" json:"input_phone"`
	InputAddress      string  `csv:"Input Address" json:"input_address"`
	APIName           string  `csv:"API Name" json:"api_name"`
	APIPhone          string  `csv:"API Phone" json:"api_phone"`
	APIAddress        string  `csv:"API Address" json:"api_address"`
	NameMatch         string  `csv:"Name Match" json:"name_match"`
	AddressMatch      string  `csv:"Address Match" json:"address_match"`
	PhoneMatch        string  `csv:"Phone Match" json:"phone_match"`
	NameSimilarity    float64 `csv:"Name Similarity" json:"name_similarity"`
	AddressSimilarity float64 `csv:"Address Similarity" json:"address_similarity"`
	PhoneSimilarity   float64 `csv:"Phone Similarity" json:"phone_similarity"`
	Status            string  `csv:"Overall NAP Status" json:"overall_nap_status"`
}

// Export flattens the result for serialization.
func (r AuditResult) Export() ExportRow {
	return ExportRow{
		InputName:         r.Business.Name,
		InputPhone:        r.Business.Phone,
		InputAddress:      r.Business.Address,
		APIName:           r.Candidate.Name,
		APIPhone:          r.Candidate.Phone,
		APIAddress:        r.Candidate.Address,
		NameMatch:         yesNo(r.Name.Matched),
		AddressMatch:      yesNo(r.Address.Matched),
		PhoneMatch:        yesNo(r.Phone.Matched),
		NameSimilarity:    round3(r.Name.Score),
		AddressSimilarity: round3(r.Address.Score),
		PhoneSimilarity:   round3(r.Phone.Score),
		Status:            string(r.Status),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// RunStatus is the lifecycle state of a persisted audit run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusCanceled RunStatus = "canceled"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one persisted invocation of the audit over a record source.
type Run struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	Status    RunStatus `json:"status"`
	Summary   *Summary  `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
