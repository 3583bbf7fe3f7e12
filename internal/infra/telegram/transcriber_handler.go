// File: internal/infra/telegram/transcriber_handler.go
package telegram

import (
	"context"
	"os"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-media-bots/internal/domain/model"
	"telegram-media-bots/internal/domain/ports/repository"
	"telegram-media-bots/internal/infra/logging"
	"telegram-media-bots/internal/infra/metrics"
	"telegram-media-bots/internal/usecase"
)

const transcriberHelp = `Send me a voice message or an audio file and I will transcribe it.

Settings:
//key-openai <key> - set your OpenAI API key (required)
//prompt <text> - hint the transcriber with names and jargon
//inject on|off - forward transcriptions to the language trainer`

var _ UpdateHandler = (*TranscriberHandler)(nil)

// TranscriberHandler turns audio updates into transcription jobs.
type TranscriberHandler struct {
	chat     chatAPI
	uc       usecase.TranscribeUseCase
	settings repository.SettingsStore
	log      *zerolog.Logger
}

func NewTranscriberHandler(chat chatAPI, uc usecase.TranscribeUseCase, settings repository.SettingsStore, log *zerolog.Logger) *TranscriberHandler {
	return &TranscriberHandler{chat: chat, uc: uc, settings: settings, log: log}
}

func (h *TranscriberHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
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
	case msg.Voice != nil:
		metrics.IncUpdate("audio")
		return h.transcribe(ctx, msg, msg.Voice.FileID, log)
	case msg.Audio != nil:
		metrics.IncUpdate("audio")
		return h.transcribe(ctx, msg, msg.Audio.FileID, log)
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "audio/"):
		metrics.IncUpdate("document")
		return h.transcribe(ctx, msg, msg.Document.FileID, log)
	case msg.Text != "":
		return h.handleText(msg)
	default:
		metrics.IncUpdate("unknown")
		log.Debug().Msg("ignoring unsupported message kind")
		return nil
	}
}

func (h *TranscriberHandler) handleText(msg *tgbotapi.Message) error {
	first, rest := firstToken(msg.Text)
	chatID := msg.Chat.ID

	if reply, ok := settingsReply(h.settings, chatID, first, rest); ok {
		metrics.IncCommand(first)
		return h.chat.Reply(chatID, msg.MessageID, reply)
	}

	switch first {
	case "/start", "/help":
		metrics.IncCommand(first)
		return h.chat.Reply(chatID, msg.MessageID, transcriberHelp)
	case "//inject":
		metrics.IncCommand(first)
		on := strings.EqualFold(rest, "on")
		h.settings.Update(chatID, func(s *model.UserSettings) { s.InjectLanguage = on })
		if on {
			return h.chat.Reply(chatID, msg.MessageID, "Language injection enabled.")
		}
		return h.chat.Reply(chatID, msg.MessageID, "Language injection disabled.")
	default:
		metrics.IncUpdate("text")
		return h.chat.Reply(chatID, msg.MessageID, "Send me audio to transcribe, or /help for the settings commands.")
	}
}

func (h *TranscriberHandler) transcribe(ctx context.Context, msg *tgbotapi.Message, fileID string, log *zerolog.Logger) error {
	chatID := msg.Chat.ID
	waitID, err := h.chat.SendWaiting(chatID, msg.MessageID)
	if err != nil {
		log.Warn().Err(err).Msg("waiting message not sent")
	}
	defer h.chat.Delete(chatID, waitID)

	path, err := h.chat.DownloadFile(ctx, fileID)
	if err != nil {
		log.Error().Err(err).Msg("download failed")
		return h.chat.Reply(chatID, msg.MessageID, userMessage(err))
	}
	defer os.Remove(path)

	settings, _ := h.settings.GetOrCreate(chatID)
	if settings.OpenAIKey == "" {
		return h.chat.Reply(chatID, msg.MessageID, "Set your OpenAI key first: //key-openai <key>")
	}

	delivery, err := h.uc.Transcribe(ctx, chatID, path, settings)
	if err != nil {
		log.Error().Err(err).Msg("transcription failed")
		return h.chat.Reply(chatID, msg.MessageID, userMessage(err))
	}
	return deliverReply(h.chat, chatID, msg.MessageID, "The transcription", delivery)
}
