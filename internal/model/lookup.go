package model

import "time"

// CachedLookup is a stored directory answer for a query. Found is false for
// a remembered "no results" answer.
type CachedLookup struct {
	Query     string          `json:"query"`
	Found     bool            `json:"found"`
	Candidate CandidateRecord `json:"candidate"`
	CachedAt  time.Time       `json:"cached_at"`
}
