// File: internal/infra/telegram/handler_test.go
package telegram

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-media-bots/internal/domain"
	"telegram-media-bots/internal/domain/model"
	"telegram-media-bots/internal/infra/memstore"
	"telegram-media-bots/internal/usecase"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type fakeChat struct {
	t           *testing.T
	replies     []string
	htmlReplies []string
	waitings    int
	deletions   []int
	downloadErr error
}

func (f *fakeChat) Send(_ int64, text string) error { f.replies = append(f.replies, text); return nil }

func (f *fakeChat) Reply(_ int64, _ int, text string) error {
	f.replies = append(f.replies, text)
	return nil
}

func (f *fakeChat) ReplyHTML(_ int64, _ int, text string) error {
	f.htmlReplies = append(f.htmlReplies, text)
	return nil
}

func (f *fakeChat) SendWaiting(int64, int) (int, error) {
	f.waitings++
	return 42, nil
}

func (f *fakeChat) Delete(_ int64, messageID int) { f.deletions = append(f.deletions, messageID) }

func (f *fakeChat) DownloadFile(context.Context, string) (string, error) {
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	path := filepath.Join(f.t.TempDir(), "payload")
	if err := os.WriteFile(path, []byte("downloaded content"), 0o600); err != nil {
		f.t.Fatal(err)
	}
	return path, nil
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: 7},
		Text:      text,
	}}
}

type stubTranscribe struct {
	delivery usecase.Delivery
	err      error
	calls    int
	settings model.UserSettings
}

func (s *stubTranscribe) Transcribe(_ context.Context, _ int64, _ string, settings model.UserSettings) (usecase.Delivery, error) {
	s.calls++
	s.settings = settings
	return s.delivery, s.err
}

type stubArchive struct {
	report     *usecase.BatchReport
	runErr     error
	restartErr error
	delivery   usecase.Delivery
	restarted  string
	planned    [][]string
}

func (s *stubArchive) Plan(chatID int64, urls []string) ([]*model.Job, []usecase.ChunkPreview, error) {
	s.planned = append(s.planned, urls)
	jobs := []*model.Job{model.NewJob(chatID, model.JobPayload{URLs: urls})}
	previews := []usecase.ChunkPreview{{Index: 0, First: urls[0], Last: urls[len(urls)-1], Size: len(urls)}}
	return jobs, previews, nil
}

func (s *stubArchive) Run(context.Context, int64, []*model.Job) (*usecase.BatchReport, error) {
	return s.report, s.runErr
}

func (s *stubArchive) Restart(_ context.Context, _ int64, jobID string) (usecase.Delivery, error) {
	s.restarted = jobID
	return s.delivery, s.restartErr
}

func TestTranscriberHandler_SettingsCommands(t *testing.T) {
	chat := &fakeChat{t: t}
	store := memstore.NewSettingsStore()
	h := NewTranscriberHandler(chat, &stubTranscribe{}, store, testLogger())

	steps := []struct {
		text  string
		reply string
	}{
		{"//key-openai sk-123", "OpenAI key saved."},
		{"//prompt meeting notes", "Prompt saved."},
		{"//inject on", "Language injection enabled."},
		{"//inject off", "Language injection disabled."},
	}
	for i, step := range steps {
		if err := h.HandleUpdate(context.Background(), textUpdate(step.text)); err != nil {
			t.Fatalf("HandleUpdate(%q) error = %v", step.text, err)
		}
		if chat.replies[i] != step.reply {
			t.Fatalf("reply = %q, want %q", chat.replies[i], step.reply)
		}
	}

	settings, ok := store.Get(7)
	if !ok {
		t.Fatal("settings not created")
	}
	if settings.OpenAIKey != "sk-123" || settings.Prompt != "meeting notes" || settings.InjectLanguage {
		t.Fatalf("settings = %+v", settings)
	}
}

func TestTranscriberHandler_AudioFlow(t *testing.T) {
	chat := &fakeChat{t: t}
	store := memstore.NewSettingsStore()
	store.Update(7, func(s *model.UserSettings) { s.OpenAIKey = "sk-123" })
	uc := &stubTranscribe{delivery: usecase.Delivery{Text: "hello world"}}
	h := NewTranscriberHandler(chat, uc, store, testLogger())

	update := tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: 7},
		Voice:     &tgbotapi.Voice{FileID: "voice-1"},
	}}
	if err := h.HandleUpdate(context.Background(), update); err != nil {
		t.Fatalf("HandleUpdate() error = %v", err)
	}
	if uc.calls != 1 {
		t.Fatalf("use case calls = %d, want 1", uc.calls)
	}
	if uc.settings.OpenAIKey != "sk-123" {
		t.Fatalf("settings not passed through: %+v", uc.settings)
	}
	if len(chat.replies) != 1 || chat.replies[0] != "hello world" {
		t.Fatalf("replies = %v", chat.replies)
	}
	// The hourglass placeholder is posted and deleted exactly once.
	if chat.waitings != 1 || len(chat.deletions) != 1 || chat.deletions[0] != 42 {
		t.Fatalf("waitings = %d, deletions = %v", chat.waitings, chat.deletions)
	}
}

func TestTranscriberHandler_MissingKey(t *testing.T) {
	chat := &fakeChat{t: t}
	uc := &stubTranscribe{}
	h := NewTranscriberHandler(chat, uc, memstore.NewSettingsStore(), testLogger())

	update := tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: 7},
		Voice:     &tgbotapi.Voice{FileID: "voice-1"},
	}}
	if err := h.HandleUpdate(context.Background(), update); err != nil {
		t.Fatalf("HandleUpdate() error = %v", err)
	}
	if uc.calls != 0 {
		t.Fatal("transcription attempted without a key")
	}
	if len(chat.replies) != 1 || !strings.Contains(chat.replies[0], "//key-openai") {
		t.Fatalf("replies = %v", chat.replies)
	}
}

func TestTranscriberHandler_FailureProducesOneReply(t *testing.T) {
	chat := &fakeChat{t: t}
	store := memstore.NewSettingsStore()
	store.Update(7, func(s *model.UserSettings) { s.OpenAIKey = "sk-123" })
	uc := &stubTranscribe{err: domain.ErrServiceUnhealthy}
	h := NewTranscriberHandler(chat, uc, store, testLogger())

	update := tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: 7},
		Audio:     &tgbotapi.Audio{FileID: "audio-1"},
	}}
	if err := h.HandleUpdate(context.Background(), update); err != nil {
		t.Fatalf("HandleUpdate() error = %v", err)
	}
	if len(chat.replies) != 1 {
		t.Fatalf("replies = %v, want exactly one", chat.replies)
	}
	if !strings.Contains(chat.replies[0], "down") {
		t.Fatalf("reply = %q", chat.replies[0])
	}
}

func TestTranscriberHandler_IgnoresUnknownUpdates(t *testing.T) {
	chat := &fakeChat{t: t}
	h := NewTranscriberHandler(chat, &stubTranscribe{}, memstore.NewSettingsStore(), testLogger())

	if err := h.HandleUpdate(context.Background(), tgbotapi.Update{}); err != nil {
		t.Fatalf("HandleUpdate() error = %v", err)
	}
	sticker := tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: 7},
		Sticker:   &tgbotapi.Sticker{FileID: "s"},
	}}
	if err := h.HandleUpdate(context.Background(), sticker); err != nil {
		t.Fatalf("HandleUpdate() error = %v", err)
	}
	if len(chat.replies) != 0 {
		t.Fatalf("replies = %v, want silence", chat.replies)
	}
}

func TestMusicFetcherHandler_RejectsForeignURLs(t *testing.T) {
	chat := &fakeChat{t: t}
	h := NewMusicFetcherHandler(chat, &stubArchive{}, testLogger())

	if err := h.HandleUpdate(context.Background(), textUpdate("https://evil.example.com/track")); err != nil {
		t.Fatalf("HandleUpdate() error = %v", err)
	}
	if len(chat.replies) != 1 || !strings.Contains(chat.replies[0], "Invalid input") {
		t.Fatalf("replies = %v", chat.replies)
	}
}

func TestMusicFetcherHandler_FetchReportsFailedIDs(t *testing.T) {
	chat := &fakeChat{t: t}
	stub := &stubArchive{report: &usecase.BatchReport{
		Outcomes:     []usecase.ChunkOutcome{{Index: 0, JobID: "job-1", Delivery: usecase.Delivery{Text: "archive"}}},
		FailedJobIDs: []string{"job-2"},
	}}
	h := NewMusicFetcherHandler(chat, stub, testLogger())

	text := "https://music.youtube.com/watch?v=a https://music.youtube.com/watch?v=b"
	if err := h.HandleUpdate(context.Background(), textUpdate(text)); err != nil {
		t.Fatalf("HandleUpdate() error = %v", err)
	}
	if len(stub.planned) != 1 || len(stub.planned[0]) != 2 {
		t.Fatalf("planned = %v", stub.planned)
	}
	joined := strings.Join(chat.replies, "\n")
	if !strings.Contains(joined, "archive") {
		t.Fatalf("succeeded chunk not delivered: %v", chat.replies)
	}
	if !strings.Contains(joined, "job-2") || !strings.Contains(joined, "/restart") {
		t.Fatalf("restart hint missing: %v", chat.replies)
	}
}

func TestMusicFetcherHandler_Restart(t *testing.T) {
	chat := &fakeChat{t: t}
	stub := &stubArchive{delivery: usecase.Delivery{Text: "archive again"}}
	h := NewMusicFetcherHandler(chat, stub, testLogger())

	if err := h.HandleUpdate(context.Background(), textUpdate("/restart job-9")); err != nil {
		t.Fatalf("HandleUpdate() error = %v", err)
	}
	if stub.restarted != "job-9" {
		t.Fatalf("restarted = %q", stub.restarted)
	}
	if len(chat.replies) != 1 || chat.replies[0] != "archive again" {
		t.Fatalf("replies = %v", chat.replies)
	}

	chat.replies = nil
	stub.restartErr = domain.ErrNotFound
	if err := h.HandleUpdate(context.Background(), textUpdate("/restart job-9")); err != nil {
		t.Fatalf("HandleUpdate() error = %v", err)
	}
	if len(chat.replies) != 1 || !strings.Contains(chat.replies[0], "No failed job") {
		t.Fatalf("replies = %v", chat.replies)
	}
}

func TestMusicFetcherHandler_RestartUsage(t *testing.T) {
	chat := &fakeChat{t: t}
	h := NewMusicFetcherHandler(chat, &stubArchive{}, testLogger())

	if err := h.HandleUpdate(context.Background(), textUpdate("/restart")); err != nil {
		t.Fatalf("HandleUpdate() error = %v", err)
	}
	if len(chat.replies) != 1 || !strings.Contains(chat.replies[0], "Usage") {
		t.Fatalf("replies = %v", chat.replies)
	}
}

type stubRecap struct {
	delivery usecase.Delivery
	err      error
	gotText  string
}

func (s *stubRecap) Summarize(_ context.Context, _ int64, text string, _ model.UserSettings) (usecase.Delivery, error) {
	s.gotText = text
	return s.delivery, s.err
}

func TestRecapHandler_DocumentFlow(t *testing.T) {
	chat := &fakeChat{t: t}
	stub := &stubRecap{delivery: usecase.Delivery{FileURL: "https://files.example.com/sum.htm"}}
	h := NewRecapHandler(chat, stub, memstore.NewSettingsStore(), testLogger())

	update := tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: 7},
		Document:  &tgbotapi.Document{FileID: "doc-1", MimeType: "text/plain"},
	}}
	if err := h.HandleUpdate(context.Background(), update); err != nil {
		t.Fatalf("HandleUpdate() error = %v", err)
	}
	if stub.gotText != "downloaded content" {
		t.Fatalf("summarized text = %q", stub.gotText)
	}
	if len(chat.htmlReplies) != 1 || !strings.Contains(chat.htmlReplies[0], "https://files.example.com/sum.htm") {
		t.Fatalf("htmlReplies = %v", chat.htmlReplies)
	}
}

func TestRecapHandler_RejectsBinaryDocuments(t *testing.T) {
	chat := &fakeChat{t: t}
	stub := &stubRecap{}
	h := NewRecapHandler(chat, stub, memstore.NewSettingsStore(), testLogger())

	update := tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: 7},
		Document:  &tgbotapi.Document{FileID: "doc-1", MimeType: "application/pdf"},
	}}
	if err := h.HandleUpdate(context.Background(), update); err != nil {
		t.Fatalf("HandleUpdate() error = %v", err)
	}
	if stub.gotText != "" {
		t.Fatal("binary document reached the summarizer")
	}
	if len(chat.replies) != 1 || !strings.Contains(chat.replies[0], "plain-text") {
		t.Fatalf("replies = %v", chat.replies)
	}
}
