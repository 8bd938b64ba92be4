package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuchialin/tripledger/internal/model"
	"github.com/yuchialin/tripledger/internal/service"
)

// Extractor implements service.Extractor on top of a completion client.
type Extractor struct {
	client Client
}

var _ service.Extractor = (*Extractor)(nil)

// NewExtractor creates an extractor for the configured provider.
func NewExtractor(cfg Config) (*Extractor, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Extractor{client: client}, nil
}

// newClient creates a raw completion client based on the provider name.
func newClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// DraftFromText extracts a draft transaction from free-form text, e.g. a
// pasted message like "dinner at ichiran 3400 yen, I paid".
func (e *Extractor) DraftFromText(ctx context.Context, text string) (model.Draft, error) {
	raw, err := e.client.Complete(ctx, extractionPrompt(text))
	if err != nil {
		return model.Draft{}, fmt.Errorf("extraction failed: %w", err)
	}
	return ParseDraft(raw)
}

// DraftFromImage extracts a draft transaction from a PNG receipt photo.
func (e *Extractor) DraftFromImage(ctx context.Context, image []byte) (model.Draft, error) {
	raw, err := e.client.CompleteWithImage(ctx, extractionPrompt("the attached receipt"), image)
	if err != nil {
		return model.Draft{}, fmt.Errorf("extraction failed: %w", err)
	}
	return ParseDraft(raw)
}

func extractionPrompt(input string) string {
	categories := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		categories = append(categories, string(c))
	}

	return fmt.Sprintf(`Extract one expense from %s.

Respond with a JSON object with exactly these fields:
{
  "date": "YYYY-MM-DD or empty if unknown",
  "merchant": "store or vendor name",
  "item": "what was bought",
  "category": "one of: %s",
  "currency": "ISO currency code, e.g. JPY",
  "amount": 0,
  "home_amount": 0
}

"amount" is the amount in the expense's own currency. "home_amount" is the
amount in %s if stated, otherwise 0.`, input, strings.Join(categories, ", "), model.HomeCurrency)
}
