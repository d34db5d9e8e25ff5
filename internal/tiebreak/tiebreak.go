// Package tiebreak asks a language model whether two business listings
// describe the same place. The verdict is advisory.
package tiebreak

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/nap-audit/pkg/anthropic"
)

// Confirmer judges whether a local listing and a directory candidate are the
// same business. Implementations return false on any failure.
type Confirmer interface {
	Confirm(ctx context.Context, localName, localAddress, candidateName, candidateAddress string) bool
}

// Disabled never confirms. It is used when no model credentials are set.
type Disabled struct{}

// Confirm always returns false.
func (Disabled) Confirm(context.Context, string, string, string, string) bool { return false }

const (
	defaultModel     = "claude-haiku-4-5-20251001"
	defaultMaxTokens = 16
)

const promptTemplate = `Compare the following two places and determine if they are likely the same business:

Local Business:
Name: %s
Address: %s

Google Places Result:
Name: %s
Address: %s

Consider variations in business names, abbreviations, and address formatting.
Respond with 'Yes' if they match, 'No' if they are clearly different businesses.`

// Claude confirms matches with an Anthropic model at temperature 0.
type Claude struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewClaude creates a Claude confirmer. Empty model and zero maxTokens use
// the defaults.
func NewClaude(client anthropic.Client, model string, maxTokens int64) *Claude {
	if model == "" {
		model = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Claude{client: client, model: model, maxTokens: maxTokens}
}

// Prompt renders the question sent to the model.
func Prompt(localName, localAddress, candidateName, candidateAddress string) string {
	return fmt.Sprintf(promptTemplate, localName, localAddress, candidateName, candidateAddress)
}

// Confirm reports whether the model's reply starts with "yes". Errors and
// panics in the client are logged and treated as a rejection.
func (c *Claude) Confirm(ctx context.Context, localName, localAddress, candidateName, candidateAddress string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("tiebreak: client panic", zap.Any("panic", r))
			ok = false
		}
	}()

	temp := 0.0
	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: &temp,
		Messages: []anthropic.Message{{
			Role:    "user",
			Content: Prompt(localName, localAddress, candidateName, candidateAddress),
		}},
	})
	if err != nil {
		zap.L().Warn("tiebreak: request failed", zap.String("business", localName), zap.Error(err))
		return false
	}
	resp.Usage.LogCost(c.model, "tiebreak")

	return isAffirmative(resp.Text())
}

func isAffirmative(reply string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(reply)), "yes")
}
