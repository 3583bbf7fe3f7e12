// File: internal/infra/telegram/bot.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-media-bots/internal/config"
	"telegram-media-bots/internal/domain"
)

// MaxDownloadBytes caps incoming media; Telegram serves bot downloads up
// to 20 MB, we stop just under it.
const MaxDownloadBytes = 19 * 1024 * 1024

// UpdateHandler is the per-bot update processor plugged into the shared
// polling loop.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

// Bot wraps tgbotapi with concurrent polling and the small set of
// messaging primitives the handlers need.
type Bot struct {
	api           *tgbotapi.BotAPI
	updateWorkers int
	downloadDir   string
	client        *http.Client
	log           *zerolog.Logger

	cancelPolling context.CancelFunc
}

func NewBot(cfg *config.BotConfig, log *zerolog.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}
	return &Bot{
		api:           api,
		updateWorkers: workers,
		downloadDir:   os.TempDir(),
		client:        http.DefaultClient,
		log:           log,
	}, nil
}

// Username reports the authorized bot account name.
func (b *Bot) Username() string { return b.api.Self.UserName }

// StartPolling polls Telegram for updates and fans them out to a fixed
// pool of workers. It runs until ctx is canceled.
func (b *Bot) StartPolling(ctx context.Context, handler UpdateHandler) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	b.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < b.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up, ok := <-updateChan:
					if !ok {
						return
					}
					if err := handler.HandleUpdate(ctx, up); err != nil {
						b.log.Error().Int("worker", id).Err(err).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			select {
			case updateChan <- up:
			case <-ctx.Done():
			}
		}
	}
}

func (b *Bot) StopPolling() {
	if b.cancelPolling != nil {
		b.cancelPolling()
	}
}

func (b *Bot) Send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

// Reply sends text correlated to the triggering message.
func (b *Bot) Reply(chatID int64, replyTo int, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	_, err := b.api.Send(msg)
	return err
}

// ReplyHTML is Reply with Telegram HTML parse mode, used for hyperlink
// deliveries.
func (b *Bot) ReplyHTML(chatID int64, replyTo int, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

// SendWaiting posts the hourglass placeholder and returns its message id
// so the caller can delete it when the real answer goes out.
func (b *Bot) SendWaiting(chatID int64, replyTo int) (int, error) {
	msg := tgbotapi.NewMessage(chatID, "⏳")
	msg.ReplyToMessageID = replyTo
	sent, err := b.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// Delete removes a previously sent message, best-effort.
func (b *Bot) Delete(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.log.Warn().Int64("chat_id", chatID).Int("message_id", messageID).Err(err).Msg("delete failed")
	}
}

// DownloadFile fetches a Telegram-hosted file into the download
// directory and returns the local path. Oversized files are rejected
// before any bytes move.
func (b *Bot) DownloadFile(ctx context.Context, fileID string) (string, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("get file %s: %w", fileID, err)
	}
	if file.FileSize > MaxDownloadBytes {
		return "", fmt.Errorf("%w: file is larger than %d MB", domain.ErrInvalidInput, MaxDownloadBytes/(1024*1024))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return "", err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", fileID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: http %d", fileID, resp.StatusCode)
	}

	path := filepath.Join(b.downloadDir, uuid.NewString()+filepath.Ext(file.FilePath))
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, io.LimitReader(resp.Body, MaxDownloadBytes+1)); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("save %s: %w", fileID, err)
	}
	return path, nil
}
