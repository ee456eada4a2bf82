package llm

import (
	"context"
	"encoding/json"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client. It only
// focuses on the API call itself; retries, rate limiting and logging are
// applied via Middleware.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	// The genai client reads GEMINI_API_KEY from env when apiKey is empty.
	cfg := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// GenerateJSON concatenates prompt and input, asks for application/json,
// and returns the model's JSON as json.RawMessage.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	in, _ := json.MarshalIndent(input, "", "  ")
	full := prompt + "\n\n[INPUT JSON]\n" + string(in)

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrInvalidJSON
	}
	return json.RawMessage(resp.Candidates[0].Content.Parts[0].Text), nil
}
