// File: internal/usecase/recap_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"telegram-media-bots/internal/domain"
	"telegram-media-bots/internal/domain/model"
	"telegram-media-bots/internal/domain/ports/adapter"
)

// Compile-time check
var _ RecapUseCase = (*recapUC)(nil)

type RecapUseCase interface {
	// Summarize condenses a text document and delivers the outcome either
	// inline or as an uploaded document link, depending on its length.
	Summarize(ctx context.Context, chatID int64, text string, settings model.UserSettings) (Delivery, error)
}

type recapUC struct {
	summarizer   adapter.Summarizer
	counter      adapter.TokenCounter
	dispatcher   *Dispatcher
	provider     string
	maxDocTokens int
	log          *zerolog.Logger
}

func NewRecapUseCase(
	summarizer adapter.Summarizer,
	counter adapter.TokenCounter,
	dispatcher *Dispatcher,
	provider string,
	maxDocTokens int,
	log *zerolog.Logger,
) *recapUC {
	return &recapUC{
		summarizer:   summarizer,
		counter:      counter,
		dispatcher:   dispatcher,
		provider:     provider,
		maxDocTokens: maxDocTokens,
		log:          log,
	}
}

func (uc *recapUC) Summarize(ctx context.Context, chatID int64, text string, settings model.UserSettings) (Delivery, error) {
	if strings.TrimSpace(text) == "" {
		return Delivery{}, fmt.Errorf("%w: document is empty", domain.ErrInvalidInput)
	}

	tokens, err := uc.counter.CountTokens(text)
	if err != nil {
		return Delivery{}, fmt.Errorf("count tokens: %w", err)
	}
	if tokens > uc.maxDocTokens {
		return Delivery{}, fmt.Errorf("%w: document has %d tokens, limit is %d",
			domain.ErrInvalidInput, tokens, uc.maxDocTokens)
	}

	uc.log.Info().Int64("chat_id", chatID).Int("tokens", tokens).Str("provider", uc.provider).Msg("summarizing document")
	summary, err := uc.summarizer.Summarize(ctx, adapter.SummarizeRequest{
		Text:   text,
		Prompt: settings.Prompt,
		APIKey: uc.keyFor(settings),
	})
	if err != nil {
		return Delivery{}, err
	}
	if strings.TrimSpace(summary) == "" {
		return Delivery{}, domain.ErrEmptyResult
	}

	return uc.dispatcher.Deliver(ctx, "Recap", summary)
}

// keyFor picks the per-user override matching the configured provider.
// A blank key means the adapter falls back to its service credential.
func (uc *recapUC) keyFor(settings model.UserSettings) string {
	switch uc.provider {
	case "anthropic":
		return settings.AnthropicKey
	default:
		return settings.OpenAIKey
	}
}
