package adapter

import "context"

// SummarizeRequest carries the document text plus the per-chat prompt and
// API key. Providers that run on a platform key ignore APIKey.
type SummarizeRequest struct {
	Text   string
	Prompt string
	APIKey string
}

// Summarizer is an LLM summarization provider.
type Summarizer interface {
	Summarize(ctx context.Context, req SummarizeRequest) (string, error)
}

// TokenCounter estimates prompt size before a Summarize call so oversized
// documents are rejected without burning an LLM request.
type TokenCounter interface {
	CountTokens(text string) (int, error)
}
