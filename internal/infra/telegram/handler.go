// File: internal/infra/telegram/handler.go
package telegram

import (
	"context"
	"fmt"
	"strings"

	"telegram-media-bots/internal/domain/model"
	"telegram-media-bots/internal/domain/ports/repository"
	"telegram-media-bots/internal/usecase"
)

// chatAPI is the slice of Bot the handlers use; narrow so tests can fake
// the chat side without a live Telegram session.
type chatAPI interface {
	Send(chatID int64, text string) error
	Reply(chatID int64, replyTo int, text string) error
	ReplyHTML(chatID int64, replyTo int, text string) error
	SendWaiting(chatID int64, replyTo int) (int, error)
	Delete(chatID int64, messageID int)
	DownloadFile(ctx context.Context, fileID string) (string, error)
}

var _ chatAPI = (*Bot)(nil)

// firstToken splits a text message into its routing keyword and the
// remainder.
func firstToken(text string) (string, string) {
	text = strings.TrimSpace(text)
	first, rest, _ := strings.Cut(text, " ")
	return first, strings.TrimSpace(rest)
}

// settingsReply handles the key and prompt commands shared by every bot.
// It reports false when the keyword is not a settings command.
func settingsReply(store repository.SettingsStore, chatID int64, first, rest string) (string, bool) {
	switch first {
	case "//key-openai":
		if rest == "" {
			return "Usage: //key-openai <key>", true
		}
		store.Update(chatID, func(s *model.UserSettings) { s.OpenAIKey = rest })
		return "OpenAI key saved.", true
	case "//key-anthropic":
		if rest == "" {
			return "Usage: //key-anthropic <key>", true
		}
		store.Update(chatID, func(s *model.UserSettings) { s.AnthropicKey = rest })
		return "Anthropic key saved.", true
	case "//prompt":
		store.Update(chatID, func(s *model.UserSettings) { s.Prompt = rest })
		if rest == "" {
			return "Prompt cleared.", true
		}
		return "Prompt saved.", true
	}
	return "", false
}

// deliverReply sends a successful outcome back to the chat: raw text
// inline, or a hyperlink when the result went through the upload path.
func deliverReply(chat chatAPI, chatID int64, replyTo int, title string, d usecase.Delivery) error {
	if d.Inline() {
		return chat.Reply(chatID, replyTo, d.Text)
	}
	return chat.ReplyHTML(chatID, replyTo,
		fmt.Sprintf(`%s is too long for a message. <a href="%s">Download it here.</a>`, title, d.FileURL))
}
