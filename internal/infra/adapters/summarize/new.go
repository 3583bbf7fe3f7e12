// File: internal/infra/adapters/summarize/new.go
package summarize

import (
	"context"
	"fmt"

	"telegram-media-bots/internal/config"
	"telegram-media-bots/internal/domain/ports/adapter"
)

// New picks the configured provider.
func New(ctx context.Context, cfg config.RecapConfig) (adapter.Summarizer, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicAdapter(cfg.Model, ""), nil
	case "openai":
		return NewOpenAIAdapter(cfg.Model), nil
	case "gemini":
		return NewGeminiAdapter(ctx, cfg.GeminiKey, cfg.GeminiURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown recap provider %q", cfg.Provider)
	}
}
