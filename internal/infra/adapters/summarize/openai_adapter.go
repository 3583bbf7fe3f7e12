// File: internal/infra/adapters/summarize/openai_adapter.go
package summarize

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"telegram-media-bots/internal/domain"
	"telegram-media-bots/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.Summarizer = (*OpenAIAdapter)(nil)

// OpenAIAdapter summarizes via the Chat Completions API. The key comes
// with each request: users bring their own.
type OpenAIAdapter struct {
	client openai.Client
	model  string
}

func NewOpenAIAdapter(model string) *OpenAIAdapter {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIAdapter{client: openai.NewClient(), model: model}
}

func (o *OpenAIAdapter) Summarize(ctx context.Context, req adapter.SummarizeRequest) (string, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return "", errors.New("openai: empty api key")
	}

	messages := []openai.ChatCompletionMessageParamUnion{}
	if req.Prompt != "" {
		messages = append(messages, openai.SystemMessage(req.Prompt))
	} else {
		messages = append(messages, openai.SystemMessage(defaultPrompt))
	}
	messages = append(messages, openai.UserMessage(req.Text))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: messages,
	}, option.WithAPIKey(req.APIKey))
	if err != nil {
		return "", err
	}
	for _, c := range resp.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", domain.ErrEmptyResult
}
