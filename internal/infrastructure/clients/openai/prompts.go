package openai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const rewriteSystemPrompt = `You are a search query normalizer for a Polish local-services marketplace. Return ONLY valid JSON with this schema:
{
  "corrected": string (the cleaned query)
}
Rules:
- Fix spelling mistakes and typos (Polish and English).
- Remove filler words and phrases such as "szukam", "potrzebuję", "chcę znaleźć", "gdzie jest".
- ALWAYS keep city, district and other geographic qualifiers.
- Never add words, services or places that are not present in the input.
- If the query is already clean, return it unchanged.
- Output lowercase.`

func buildRewriteUserPrompt(query string) string {
	return fmt.Sprintf("Query: %s", query)
}

// parseRewritePayload validates and coerces the LLM output into the strict
// rewrite shape. Markdown code fences are tolerated; anything else malformed
// is an error so callers fall back to the original query.
func parseRewritePayload(text string) (*rewritePayload, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	var payload rewritePayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse rewrite payload: %w", err)
	}

	payload.Corrected = strings.TrimSpace(payload.Corrected)
	if payload.Corrected == "" {
		return nil, errors.New("rewrite payload missing corrected query")
	}

	return &payload, nil
}

// rewritePayload is the strict shape expected from the rewrite prompt. The
// LLM response is untrusted external input; fields outside this shape are
// dropped at this boundary.
type rewritePayload struct {
	Corrected string `json:"corrected"`
}
