package match

import (
	"strings"
	"unicode/utf8"

	"github.com/sells-group/nap-audit/internal/model"
)

// Score awarded when one phone number contains the other.
const phoneSuffixScore = 0.9

// Address tokens this short ("st", "nw", "#") are never counted as matches.
const minComponentLen = 3

// CheckName compares two business names. They match when their similarity
// reaches threshold or when one normalized name contains the other, which
// absorbs suffix noise such as "Joe's Pizza" vs "Joe's Pizza LLC".
func CheckName(input, candidate string, threshold float64) model.FieldMatch {
	a := NormalizeText(input)
	b := NormalizeText(candidate)
	score := Similarity(a, b)
	contains := a != "" && b != "" && (strings.Contains(b, a) || strings.Contains(a, b))
	return model.FieldMatch{
		Matched: score >= threshold || contains,
		Score:   score,
	}
}

// CheckAddress compares two addresses. It matches when the whole-string
// similarity reaches threshold or when at least componentRatio of the input
// tokens are found inside candidate tokens. The score is the larger of the
// two measures.
func CheckAddress(input, candidate string, threshold, componentRatio float64) model.FieldMatch {
	a := NormalizeText(input)
	b := NormalizeText(candidate)
	sim := Similarity(a, b)
	ratio := ComponentMatchRatio(a, b)
	return model.FieldMatch{
		Matched: sim >= threshold || ratio >= componentRatio,
		Score:   max(sim, ratio),
	}
}

// ComponentMatchRatio is the fraction of input tokens (of at least three
// characters) that occur as a substring of some candidate token. Both inputs
// are expected to be normalized. Short tokens still count in the denominator.
func ComponentMatchRatio(input, candidate string) float64 {
	inParts := strings.Fields(input)
	if len(inParts) == 0 {
		return 0
	}
	candParts := strings.Fields(candidate)

	hits := 0
	for _, part := range inParts {
		if utf8.RuneCountInString(part) < minComponentLen {
			continue
		}
		for _, cp := range candParts {
			if strings.Contains(cp, part) {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(inParts))
}

// CheckPhone compares two phone numbers by their normalized digits. Equal
// digits score 1; one containing the other (a missing area code or
// extension) scores 0.9; anything else, including a blank side, is a miss.
func CheckPhone(input, candidate string) model.FieldMatch {
	a := NormalizePhone(input)
	b := NormalizePhone(candidate)
	switch {
	case a == "" || b == "":
		return model.FieldMatch{}
	case a == b:
		return model.FieldMatch{Matched: true, Score: 1}
	case strings.Contains(a, b) || strings.Contains(b, a):
		return model.FieldMatch{Matched: true, Score: phoneSuffixScore}
	default:
		return model.FieldMatch{}
	}
}
