package rank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newsdigest/internal/ratelimit"
)

const (
	groqEndpoint     = "https://api.groq.com/openai/v1/chat/completions"
	groqDefaultModel = "llama-3.3-70b-versatile"
)

// GroqClient implements Completer against Groq's OpenAI-compatible
// chat completions API. Temperature is pinned to 0 so repeated runs
// with the same headlines rank near-identically.
type GroqClient struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
	limiter  *ratelimit.AIRateLimiter
}

// NewGroqClient builds a client. An empty model selects the default.
func NewGroqClient(apiKey, model string, timeout time.Duration, limiter *ratelimit.AIRateLimiter) *GroqClient {
	if model == "" {
		model = groqDefaultModel
	}
	return &GroqClient{
		apiKey:   apiKey,
		model:    model,
		endpoint: groqEndpoint,
		http:     &http.Client{Timeout: timeout},
		limiter:  limiter,
	}
}

func (c *GroqClient) Name() string { return "groq" }

// Complete sends one prompt and returns the first choice's content.
func (c *GroqClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("groq API key not configured")
	}
	if c.limiter != nil && !c.limiter.CanUseGroq() {
		return "", fmt.Errorf("groq request budget exhausted")
	}

	body, err := json.Marshal(map[string]any{
		"model":       c.model,
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
		"temperature": 0.0,
		"max_tokens":  150,
	})
	if err != nil {
		return "", fmt.Errorf("marshal groq payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	if c.limiter != nil {
		c.limiter.RecordGroq()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("groq error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode groq response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
