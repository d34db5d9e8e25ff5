package match

import "github.com/sells-group/nap-audit/internal/model"

// Thresholds tunes the field matchers and the classifier.
type Thresholds struct {
	// Name is the minimum name similarity for a match. Default: 0.8.
	Name float64 `yaml:"name_threshold" mapstructure:"name_threshold"`

	// Address is the minimum whole-address similarity for a match. Default: 0.85.
	Address float64 `yaml:"address_threshold" mapstructure:"address_threshold"`

	// ComponentRatio is the minimum share of input address tokens found in
	// the candidate for a match. Default: 0.7.
	ComponentRatio float64 `yaml:"component_ratio" mapstructure:"component_ratio"`

	// HighSimilarity is the score both name and one other field must reach
	// for the similarity override. Default: 0.95.
	HighSimilarity float64 `yaml:"high_similarity" mapstructure:"high_similarity"`
}

// DefaultThresholds returns the tuned defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Name:           0.8,
		Address:        0.85,
		ComponentRatio: 0.7,
		HighSimilarity: 0.95,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.Name <= 0 {
		t.Name = d.Name
	}
	if t.Address <= 0 {
		t.Address = d.Address
	}
	if t.ComponentRatio <= 0 {
		t.ComponentRatio = d.ComponentRatio
	}
	if t.HighSimilarity <= 0 {
		t.HighSimilarity = d.HighSimilarity
	}
	return t
}

// Matcher applies a fixed set of thresholds to record pairs. It holds no
// mutable state and is safe for concurrent use.
type Matcher struct {
	th Thresholds
}

// New creates a Matcher. Zero thresholds fall back to the defaults.
func New(th Thresholds) *Matcher {
	return &Matcher{th: th.withDefaults()}
}

// Thresholds returns the effective thresholds.
func (m *Matcher) Thresholds() Thresholds {
	return m.th
}

// Match compares a business with a candidate and classifies the pair.
func (m *Matcher) Match(b model.BusinessRecord, c model.CandidateRecord) model.AuditResult {
	name := CheckName(b.Name, c.Name, m.th.Name)
	address := CheckAddress(b.Address, c.Address, m.th.Address, m.th.ComponentRatio)
	phone := CheckPhone(b.Phone, c.Phone)

	return model.AuditResult{
		Business:  b,
		Candidate: c,
		Name:      name,
		Address:   address,
		Phone:     phone,
		Status:    Classify(name, address, phone, m.th.HighSimilarity),
	}
}
