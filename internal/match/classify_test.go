package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/nap-audit/internal/model"
)

func fm(matched bool, score float64) model.FieldMatch {
	return model.FieldMatch{Matched: matched, Score: score}
}

func TestClassify_DecisionTable(t *testing.T) {
	tests := []struct {
		name                 string
		nameF, addrF, phoneF model.FieldMatch
		want                 model.Status
	}{
		{"all match", fm(true, 0.9), fm(true, 0.9), fm(true, 1), model.StatusAllMatch},
		{"name and address", fm(true, 0.9), fm(true, 0.9), fm(false, 0), model.StatusNameAddress},
		{"name and phone", fm(true, 0.9), fm(false, 0.3), fm(true, 1), model.StatusNamePhone},
		{"address and phone", fm(false, 0.4), fm(true, 0.9), fm(true, 0.9), model.StatusAddressPhone},
		{"name only", fm(true, 0.85), fm(false, 0.2), fm(false, 0), model.StatusNameOnly},
		{"override name and address scores", fm(false, 0.96), fm(false, 0.95), fm(false, 0), model.StatusHighSimilarity},
		{"override name and phone scores", fm(false, 0.95), fm(false, 0.1), fm(false, 0.95), model.StatusHighSimilarity},
		{"name score alone is not enough", fm(false, 0.99), fm(false, 0.94), fm(false, 0.9), model.StatusInconsistent},
		{"address and phone scores without name", fm(false, 0.5), fm(false, 0.99), fm(false, 0.99), model.StatusInconsistent},
		{"address only", fm(false, 0.2), fm(true, 0.9), fm(false, 0), model.StatusInconsistent},
		{"phone only", fm(false, 0.2), fm(false, 0.2), fm(true, 1), model.StatusInconsistent},
		{"nothing", fm(false, 0), fm(false, 0), fm(false, 0), model.StatusInconsistent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.nameF, tt.addrF, tt.phoneF, 0.95))
		})
	}
}

func TestClassify_AllMatchedIgnoresScores(t *testing.T) {
	for _, s := range []float64{0, 0.1, 0.5, 0.95, 1} {
		got := Classify(fm(true, s), fm(true, s), fm(true, s), 0.95)
		assert.Equal(t, model.StatusAllMatch, got, "score %v", s)
	}
}

func TestClassify_RuleOrderBeatsScores(t *testing.T) {
	// Name and address matched with override-level scores: the earlier rule
	// wins.
	got := Classify(fm(true, 0.99), fm(true, 0.99), fm(false, 0), 0.95)
	assert.Equal(t, model.StatusNameAddress, got)

	got = Classify(fm(true, 0.99), fm(false, 0.99), fm(false, 0), 0.95)
	assert.Equal(t, model.StatusNameOnly, got)
}

func TestClassify_CustomHighSimilarity(t *testing.T) {
	got := Classify(fm(false, 0.9), fm(false, 0.9), fm(false, 0), 0.9)
	assert.Equal(t, model.StatusHighSimilarity, got)

	got = Classify(fm(false, 0.9), fm(false, 0.9), fm(false, 0), 0.95)
	assert.Equal(t, model.StatusInconsistent, got)
}
