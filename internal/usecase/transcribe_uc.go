// File: internal/usecase/transcribe_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-media-bots/internal/domain/model"
	"telegram-media-bots/internal/domain/ports/adapter"
	"telegram-media-bots/internal/infra/metrics"
	red "telegram-media-bots/internal/infra/redis"
)

// InjectionPublisher feeds the downstream language-injection bot.
type InjectionPublisher interface {
	Publish(ctx context.Context, req red.InjectionRequest) error
}

// Compile-time check
var _ TranscribeUseCase = (*transcribeUC)(nil)

type TranscribeUseCase interface {
	// Transcribe submits the saved audio file, waits for the job and
	// dispatches the transcription (inline or as an uploaded link).
	Transcribe(ctx context.Context, chatID int64, filePath string, settings model.UserSettings) (Delivery, error)
}

type transcribeUC struct {
	audio      adapter.AudioAPI
	tokens     adapter.TokenSource
	poller     *Poller
	dispatcher *Dispatcher
	bus        InjectionPublisher // optional
	log        *zerolog.Logger
}

func NewTranscribeUseCase(
	audio adapter.AudioAPI,
	tokens adapter.TokenSource,
	poller *Poller,
	dispatcher *Dispatcher,
	bus InjectionPublisher,
	log *zerolog.Logger,
) *transcribeUC {
	return &transcribeUC{
		audio:      audio,
		tokens:     tokens,
		poller:     poller,
		dispatcher: dispatcher,
		bus:        bus,
		log:        log,
	}
}

func (uc *transcribeUC) Transcribe(ctx context.Context, chatID int64, filePath string, settings model.UserSettings) (Delivery, error) {
	if err := uc.audio.CheckHealth(ctx); err != nil {
		return Delivery{}, err
	}

	cred, err := uc.tokens.Credential(ctx, model.DefaultRefreshThreshold)
	if err != nil {
		return Delivery{}, err
	}

	jobID, err := uc.audio.Transcribe(ctx, cred.Bearer(), adapter.TranscribeRequest{
		FilePath: filePath,
		Prompt:   settings.Prompt,
		APIKey:   settings.OpenAIKey,
	})
	if err != nil {
		return Delivery{}, err
	}
	metrics.IncJobSubmitted("audio")
	uc.log.Info().Str("job_id", jobID).Int64("chat_id", chatID).Msg("transcription job submitted")

	start := uc.poller.clock.Now()
	result, err := uc.poller.Wait(ctx, jobID, uc.audio.JobStatus)
	metrics.ObserveJobWait("audio", uc.poller.clock.Now().Sub(start).Seconds())
	if err != nil {
		metrics.IncJobFinished("audio", outcomeLabel(err))
		return Delivery{}, err
	}
	metrics.IncJobFinished("audio", "succeeded")

	if settings.InjectLanguage && uc.bus != nil {
		req := red.InjectionRequest{ChatID: chatID, Text: result}
		if err := uc.bus.Publish(ctx, req); err != nil {
			// Injection is best-effort; the transcription still goes out.
			uc.log.Error().Err(err).Int64("chat_id", chatID).Msg("injection publish failed")
		}
	}

	return uc.dispatcher.Deliver(ctx, "Transcription", result)
}
