// Package sentiment scores news headlines and fuses two headline sources
// into one consensus score.
package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// Classifier labels each headline, preserving input order and length.
type Classifier interface {
	Classify(ctx context.Context, headlines []string) ([]model.Classification, error)
}

// ErrClassification is returned when a classifier reply cannot be used.
var ErrClassification = errors.New("unusable classification")

const classifyPrompt = `Classify the financial sentiment of each numbered news headline.
Reply with only a JSON array with one object per headline, in order, shaped like
{"label": "positive" | "neutral" | "negative", "confidence": <0..1>}.

%s`

// ClaudeClassifier labels headlines with an Anthropic model.
type ClaudeClassifier struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewClaudeClassifier creates a classifier for model. Extra options are
// passed to the API client.
func NewClaudeClassifier(apiKey, model string, opts ...option.RequestOption) *ClaudeClassifier {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &ClaudeClassifier{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: 1024,
	}
}

func (c *ClaudeClassifier) Classify(ctx context.Context, headlines []string) ([]model.Classification, error) {
	if len(headlines) == 0 {
		return nil, nil
	}
	var numbered strings.Builder
	for i, h := range headlines {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, h)
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(classifyPrompt, numbered.String()))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("classify headlines: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return parseClassifications(text.String(), len(headlines))
}

// parseClassifications extracts the JSON array from a model reply.
func parseClassifications(reply string, want int) ([]model.Classification, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON array in reply", ErrClassification)
	}
	var out []model.Classification
	if err := json.Unmarshal([]byte(reply[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassification, err)
	}
	if len(out) != want {
		return nil, fmt.Errorf("%w: got %d labels for %d headlines", ErrClassification, len(out), want)
	}
	for i := range out {
		out[i].Label = model.SentimentLabel(strings.ToLower(string(out[i].Label)))
	}
	return out, nil
}
