package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yuchialin/tripledger/internal/model"
)

// draftPayload is the JSON shape the extraction prompt asks for.
type draftPayload struct {
	Date       string  `json:"date"`
	Merchant   string  `json:"merchant"`
	Item       string  `json:"item"`
	Category   string  `json:"category"`
	Currency   string  `json:"currency"`
	Amount     float64 `json:"amount"`
	HomeAmount float64 `json:"home_amount"`
}

// ParseDraft parses a model response into a draft transaction. Responses
// wrapped in markdown code fences or surrounded by prose are tolerated; the
// first JSON object found wins.
func ParseDraft(raw string) (model.Draft, error) {
	content := extractJSON(raw)
	if content == "" {
		return model.Draft{}, fmt.Errorf("no JSON object in response")
	}

	var payload draftPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return model.Draft{}, fmt.Errorf("failed to parse draft JSON: %w", err)
	}

	if payload.Amount <= 0 {
		return model.Draft{}, fmt.Errorf("draft has no positive amount")
	}

	draft := model.Draft{
		Merchant:       strings.TrimSpace(payload.Merchant),
		Item:           strings.TrimSpace(payload.Item),
		Category:       model.ParseCategory(strings.ToLower(strings.TrimSpace(payload.Category))),
		Currency:       strings.ToUpper(strings.TrimSpace(payload.Currency)),
		OriginalAmount: payload.Amount,
		HomeAmount:     payload.HomeAmount,
	}

	if payload.Date != "" {
		if d, err := time.Parse("2006-01-02", payload.Date); err == nil {
			draft.Date = d
		}
	}

	if draft.Currency == "" {
		draft.Currency = model.HomeCurrency
	}
	if draft.Currency == model.HomeCurrency && draft.HomeAmount == 0 {
		draft.HomeAmount = draft.OriginalAmount
	}

	return draft, nil
}

// extractJSON cuts the first balanced top-level JSON object out of a
// response that may carry code fences or commentary.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}
