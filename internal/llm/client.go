// Package llm implements the AI draft-extraction boundary: turning
// free-form text or a receipt image into a draft transaction the user
// reviews through the normal allocation path. The engine only ever sees the
// service.Extractor interface; providers here are interchangeable.
package llm

import (
	"context"
	"time"
)

// Client is a minimal completion client over one LLM provider.
type Client interface {
	// Complete sends a text-only prompt and returns the raw response text.
	Complete(ctx context.Context, prompt string) (string, error)
	// CompleteWithImage sends a prompt with an attached PNG image.
	CompleteWithImage(ctx context.Context, prompt string, image []byte) (string, error)
}

// Config holds provider settings for the extraction client.
type Config struct {
	Provider    string // "openai" or "anthropic"
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}
