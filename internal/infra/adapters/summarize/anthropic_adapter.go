// File: internal/infra/adapters/summarize/anthropic_adapter.go
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"telegram-media-bots/internal/domain"
	"telegram-media-bots/internal/domain/ports/adapter"
)

const defaultPrompt = "Summarize the following document. Keep the structure of the original and do not invent facts."

// Compile-time assurance this adapter satisfies the port
var _ adapter.Summarizer = (*AnthropicAdapter)(nil)

// AnthropicAdapter summarizes against the Messages API.
// Base URL defaults to https://api.anthropic.com/v1 (configurable).
// Authentication is x-api-key plus a pinned anthropic-version header.
type AnthropicAdapter struct {
	base   string
	model  string
	client *http.Client
}

func NewAnthropicAdapter(model, base string) *AnthropicAdapter {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	if base == "" {
		base = "https://api.anthropic.com/v1"
	}
	return &AnthropicAdapter{
		base:   strings.TrimRight(base, "/"),
		model:  model,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (a *AnthropicAdapter) Summarize(ctx context.Context, req adapter.SummarizeRequest) (string, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return "", errors.New("anthropic: empty api key")
	}
	prompt := req.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}

	reqBody := struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		System    string `json:"system"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}{
		Model:     a.model,
		MaxTokens: 8192,
		System:    prompt,
		Messages: []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		}{{Role: "user", Content: req.Text}},
	}

	b, _ := json.Marshal(reqBody)
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/messages", bytes.NewReader(b))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", req.APIKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("anthropic http %d", resp.StatusCode)
	}

	var payload struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	for _, c := range payload.Content {
		if c.Type == "text" && c.Text != "" {
			return c.Text, nil
		}
	}
	return "", domain.ErrEmptyResult
}
