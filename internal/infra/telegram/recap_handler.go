// File: internal/infra/telegram/recap_handler.go
package telegram

import (
	"context"
	"os"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-media-bots/internal/domain/ports/repository"
	"telegram-media-bots/internal/infra/logging"
	"telegram-media-bots/internal/infra/metrics"
	"telegram-media-bots/internal/usecase"
)

const recapHelp = `Send me a plain-text document and I will summarize it.

Settings:
//key-anthropic <key> - set your Anthropic API key
//key-openai <key> - set your OpenAI API key
//prompt <text> - steer the summary style`

var _ UpdateHandler = (*RecapHandler)(nil)

// RecapHandler summarizes uploaded text documents.
type RecapHandler struct {
	chat     chatAPI
	uc       usecase.RecapUseCase
	settings repository.SettingsStore
	log      *zerolog.Logger
}

func NewRecapHandler(chat chatAPI, uc usecase.RecapUseCase, settings repository.SettingsStore, log *zerolog.Logger) *RecapHandler {
	return &RecapHandler{chat: chat, uc: uc, settings: settings, log: log}
}

func (h *RecapHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil {
		metrics.IncUpdate("unknown")
		h.log.Debug().Msg("ignoring non-message update")
		return nil
	}
	ctx = logging.WithTraceID(ctx, ulid.Make().String())
	ctx = logging.WithChatID(ctx, msg.Chat.ID)
	log := logging.With(ctx, h.log)

	switch {
	case msg.Document != nil:
		metrics.IncUpdate("document")
		return h.summarize(ctx, msg, log)
	case msg.Text != "":
		return h.handleText(msg)
	default:
		metrics.IncUpdate("unknown")
		log.Debug().Msg("ignoring unsupported message kind")
		return nil
	}
}

func (h *RecapHandler) handleText(msg *tgbotapi.Message) error {
	first, rest := firstToken(msg.Text)
	chatID := msg.Chat.ID

	if reply, ok := settingsReply(h.settings, chatID, first, rest); ok {
		metrics.IncCommand(first)
		return h.chat.Reply(chatID, msg.MessageID, reply)
	}
	switch first {
	case "/start", "/help":
		metrics.IncCommand(first)
		return h.chat.Reply(chatID, msg.MessageID, recapHelp)
	default:
		metrics.IncUpdate("text")
		return h.chat.Reply(chatID, msg.MessageID, "Send me a text document to summarize, or /help for the settings commands.")
	}
}

func (h *RecapHandler) summarize(ctx context.Context, msg *tgbotapi.Message, log *zerolog.Logger) error {
	chatID := msg.Chat.ID
	doc := msg.Document
	if !strings.HasPrefix(doc.MimeType, "text/") {
		return h.chat.Reply(chatID, msg.MessageID, "Invalid input: only plain-text documents are supported.")
	}

	waitID, err := h.chat.SendWaiting(chatID, msg.MessageID)
	if err != nil {
		log.Warn().Err(err).Msg("waiting message not sent")
	}
	defer h.chat.Delete(chatID, waitID)

	path, err := h.chat.DownloadFile(ctx, doc.FileID)
	if err != nil {
		log.Error().Err(err).Msg("download failed")
		return h.chat.Reply(chatID, msg.MessageID, userMessage(err))
	}
	defer os.Remove(path)

	text, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Msg("read failed")
		return h.chat.Reply(chatID, msg.MessageID, userMessage(err))
	}

	settings, _ := h.settings.GetOrCreate(chatID)
	delivery, err := h.uc.Summarize(ctx, chatID, string(text), settings)
	if err != nil {
		log.Error().Err(err).Msg("summarize failed")
		return h.chat.Reply(chatID, msg.MessageID, userMessage(err))
	}
	return deliverReply(h.chat, chatID, msg.MessageID, "The summary", delivery)
}
