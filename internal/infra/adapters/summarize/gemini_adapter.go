// File: internal/infra/adapters/summarize/gemini_adapter.go
package summarize

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"telegram-media-bots/internal/domain"
	"telegram-media-bots/internal/domain/ports/adapter"
)

var _ adapter.Summarizer = (*GeminiAdapter)(nil)

// GeminiAdapter summarizes using the official SDK. Unlike the other
// providers it runs on a service-level key; per-user keys in the
// request are ignored.
type GeminiAdapter struct {
	client *genai.Client
	model  string
}

func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model}, nil
}

func (g *GeminiAdapter) Summarize(ctx context.Context, req adapter.SummarizeRequest) (string, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}

	chat, err := g.client.Chats.Create(
		ctx,
		g.model,
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: prompt}},
			},
		},
		nil,
	)
	if err != nil {
		return "", err
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: req.Text})
	if err != nil {
		return "", err
	}
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			return t, nil
		}
	}
	return "", domain.ErrEmptyResult
}
