package classifier

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const systemInstruction = "You are a helpful assistant that processes short-form video content. " +
	"Extract key information and summarize it concisely."

// GeminiModel is a Model backed by the Gemini API. Requests are paced by a
// token-bucket limiter; a request waiting for a token gives up when its
// context is done.
type GeminiModel struct {
	models  *genai.Models
	name    string
	config  *genai.GenerateContentConfig
	limiter *rate.Limiter
}

// NewGeminiModel creates a Gemini client for the given model name.
// requestsPerSecond <= 0 disables pacing.
func NewGeminiModel(ctx context.Context, apiKey, modelName string, requestsPerSecond float64) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating genai client: %w", err)
	}

	limit := rate.Inf
	burst := 1
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = max(1, int(requestsPerSecond))
	}

	return &GeminiModel{
		models: client.Models,
		name:   modelName,
		config: &genai.GenerateContentConfig{
			Temperature:       genai.Ptr[float32](0.2),
			MaxOutputTokens:   500,
			ResponseMIMEType:  "application/json",
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		},
		limiter: rate.NewLimiter(limit, burst),
	}, nil
}

// Generate sends a single request; it does not retry.
func (g *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}, Role: "user"},
	}
	resp, err := g.models.GenerateContent(ctx, g.name, contents, g.config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		// only the first candidate with content is used
		break
	}
	return sb.String(), nil
}
