package match

import "github.com/sells-group/nap-audit/internal/model"

// Classify reduces the three field outcomes to a status. Rules are checked
// in order and the first one that holds wins, so a result that satisfies
// both a match rule and the similarity override gets the match label.
// Scores only matter once no field combination has matched.
func Classify(name, address, phone model.FieldMatch, highSimilarity float64) model.Status {
	switch {
	case name.Matched && address.Matched && phone.Matched:
		return model.StatusAllMatch
	case name.Matched && address.Matched:
		return model.StatusNameAddress
	case name.Matched && phone.Matched:
		return model.StatusNamePhone
	case address.Matched && phone.Matched:
		return model.StatusAddressPhone
	case name.Matched:
		return model.StatusNameOnly
	case name.Score >= highSimilarity && (address.Score >= highSimilarity || phone.Score >= highSimilarity):
		return model.StatusHighSimilarity
	default:
		return model.StatusInconsistent
	}
}
