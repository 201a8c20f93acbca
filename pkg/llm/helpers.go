// pkg/llm/helpers.go
package llm

import (
	"encoding/json"
	"net/http"

	cerr "github.com/cockroachdb/errors"
)

// ───────────────────────── Payload helpers ────────────────────────────────

func BuildPayload(systemPrompt, userPrompt, model string, maxTokens int) map[string]any {
	return map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"temperature": 0,
		"top_p":       1,
		"max_tokens":  maxTokens,
	}
}

// ───────────────────────── Response decoding ──────────────────────────────

// ExtractResponseText decodes a chat-completion response body and returns
// the first choice's content exactly as the model produced it. Whitespace
// is significant: the text replaces a source file, so newlines must
// survive.
func ExtractResponseText(resp *http.Response) (string, error) {
	defer func() { _ = resp.Body.Close() }()

	var data struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", cerr.Wrap(err, "failed to decode completion response")
	}
	if len(data.Choices) == 0 {
		return "", cerr.New("no choices")
	}
	return data.Choices[0].Message.Content, nil
}
