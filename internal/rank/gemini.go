package rank

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"newsdigest/internal/ratelimit"
)

const geminiDefaultModel = "gemini-1.5-flash"

// GeminiClient implements Completer via Google's generative AI SDK.
type GeminiClient struct {
	client  *genai.Client
	model   string
	limiter *ratelimit.AIRateLimiter
}

// NewGeminiClient dials the Gemini API. An empty model selects the default.
func NewGeminiClient(ctx context.Context, apiKey, model string, limiter *ratelimit.AIRateLimiter) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = geminiDefaultModel
	}
	return &GeminiClient{client: client, model: model, limiter: limiter}, nil
}

func (c *GeminiClient) Name() string { return "gemini" }

// Close releases the underlying gRPC connection.
func (c *GeminiClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Complete sends one prompt and returns the first candidate part.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil && !c.limiter.CanUseGemini() {
		return "", fmt.Errorf("gemini request budget exhausted")
	}

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0)

	if c.limiter != nil {
		c.limiter.RecordGemini()
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}
