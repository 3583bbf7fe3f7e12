// File: internal/infra/telegram/musicfetcher_handler.go
package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-media-bots/internal/infra/logging"
	"telegram-media-bots/internal/infra/metrics"
	"telegram-media-bots/internal/usecase"
)

const musicFetcherHelp = `Send me YouTube Music track links (one per line) and I will fetch them as an audio archive.

Long lists are split into parts delivered separately.
/restart <job-id> - retry a failed part`

// acceptedURLPrefixes gates what the archive backend is asked to fetch.
var acceptedURLPrefixes = []string{
	"https://music.youtube.com/",
	"https://www.youtube.com/",
	"https://youtube.com/",
	"https://youtu.be/",
}

var _ UpdateHandler = (*MusicFetcherHandler)(nil)

// MusicFetcherHandler turns track lists into batched archive jobs.
type MusicFetcherHandler struct {
	chat chatAPI
	uc   usecase.ArchiveUseCase
	log  *zerolog.Logger
}

func NewMusicFetcherHandler(chat chatAPI, uc usecase.ArchiveUseCase, log *zerolog.Logger) *MusicFetcherHandler {
	return &MusicFetcherHandler{chat: chat, uc: uc, log: log}
}

func (h *MusicFetcherHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil {
		metrics.IncUpdate("unknown")
		h.log.Debug().Msg("ignoring non-message update")
		return nil
	}
	if msg.Text == "" {
		metrics.IncUpdate("unknown")
		h.log.Debug().Msg("ignoring non-text message")
		return nil
	}
	ctx = logging.WithTraceID(ctx, ulid.Make().String())
	ctx = logging.WithChatID(ctx, msg.Chat.ID)
	log := logging.With(ctx, h.log)

	first, rest := firstToken(msg.Text)
	switch first {
	case "/start", "/help":
		metrics.IncCommand(first)
		return h.chat.Reply(msg.Chat.ID, msg.MessageID, musicFetcherHelp)
	case "/restart":
		metrics.IncCommand(first)
		return h.restart(ctx, msg, rest, log)
	default:
		metrics.IncUpdate("text")
		return h.fetch(ctx, msg, log)
	}
}

func (h *MusicFetcherHandler) fetch(ctx context.Context, msg *tgbotapi.Message, log *zerolog.Logger) error {
	chatID := msg.Chat.ID

	urls := strings.Fields(msg.Text)
	for _, u := range urls {
		if !accepted(u) {
			return h.chat.Reply(chatID, msg.MessageID,
				fmt.Sprintf("Invalid input: %q is not a YouTube link I can fetch.", u))
		}
	}

	jobs, previews, err := h.uc.Plan(chatID, urls)
	if err != nil {
		return h.chat.Reply(chatID, msg.MessageID, userMessage(err))
	}

	waitID, err := h.chat.SendWaiting(chatID, msg.MessageID)
	if err != nil {
		log.Warn().Err(err).Msg("waiting message not sent")
	}
	defer h.chat.Delete(chatID, waitID)

	if len(previews) > 1 {
		if err := h.chat.Reply(chatID, msg.MessageID, previewText(previews)); err != nil {
			log.Warn().Err(err).Msg("preview message not sent")
		}
	}

	report, err := h.uc.Run(ctx, chatID, jobs)
	if err != nil {
		log.Error().Err(err).Msg("batch run failed")
		return h.chat.Reply(chatID, msg.MessageID, userMessage(err))
	}

	for _, o := range report.Outcomes {
		title := fmt.Sprintf("Part %d", o.Index+1)
		if o.Err != nil {
			if err := h.chat.Reply(chatID, msg.MessageID, userMessage(o.Err)); err != nil {
				log.Warn().Err(err).Int("chunk", o.Index).Msg("outcome reply not sent")
			}
			continue
		}
		if err := deliverReply(h.chat, chatID, msg.MessageID, title, o.Delivery); err != nil {
			log.Warn().Err(err).Int("chunk", o.Index).Msg("delivery reply not sent")
		}
	}

	if len(report.FailedJobIDs) > 0 {
		var b strings.Builder
		b.WriteString("These parts failed:\n")
		for _, id := range report.FailedJobIDs {
			fmt.Fprintf(&b, "%s\n", id)
		}
		b.WriteString("Retry one with /restart <job-id>.")
		return h.chat.Reply(chatID, msg.MessageID, b.String())
	}
	return nil
}

func (h *MusicFetcherHandler) restart(ctx context.Context, msg *tgbotapi.Message, jobID string, log *zerolog.Logger) error {
	chatID := msg.Chat.ID
	if jobID == "" {
		return h.chat.Reply(chatID, msg.MessageID, "Usage: /restart <job-id>")
	}

	waitID, err := h.chat.SendWaiting(chatID, msg.MessageID)
	if err != nil {
		log.Warn().Err(err).Msg("waiting message not sent")
	}
	defer h.chat.Delete(chatID, waitID)

	delivery, err := h.uc.Restart(ctx, chatID, jobID)
	if err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("restart failed")
		return h.chat.Reply(chatID, msg.MessageID, userMessage(err))
	}
	return deliverReply(h.chat, chatID, msg.MessageID, "The archive", delivery)
}

func previewText(previews []usecase.ChunkPreview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your list is split into %d parts:\n", len(previews))
	for _, p := range previews {
		fmt.Fprintf(&b, "Part %d: %d tracks, %s ... %s\n", p.Index+1, p.Size, p.First, p.Last)
	}
	return b.String()
}

func accepted(url string) bool {
	for _, p := range acceptedURLPrefixes {
		if strings.HasPrefix(url, p) {
			return true
		}
	}
	return false
}
