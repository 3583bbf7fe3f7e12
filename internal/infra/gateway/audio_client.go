// File: internal/infra/gateway/audio_client.go
package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-media-bots/internal/domain/ports/adapter"
)

const (
	audioHealthPath = "/api/gateway/audio/v1/health"
	audioSubmitPath = "/api/gateway/audio/v1/transcribe"
	audioStatusPath = "/api/gateway/audio/v1/transcribe/status"
)

var _ adapter.AudioAPI = (*AudioClient)(nil)

// AudioClient talks to the transcription backend: multipart submit of one
// audio file, then status polls by job id.
type AudioClient struct {
	base   string
	client *http.Client
	log    *zerolog.Logger
}

func NewAudioClient(base string, timeout time.Duration, log *zerolog.Logger) (*AudioClient, error) {
	if base == "" {
		return nil, errors.New("audio gateway base url empty")
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &AudioClient{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
		log:    log,
	}, nil
}

func (c *AudioClient) CheckHealth(ctx context.Context) error {
	return checkHealth(ctx, c.client, c.base+audioHealthPath)
}

func (c *AudioClient) Transcribe(ctx context.Context, bearer string, req adapter.TranscribeRequest) (string, error) {
	fields := map[string]string{
		"prompt":       req.Prompt,
		"openaiApiKey": req.APIKey,
	}
	return submitMultipart(ctx, c.client, c.base+audioSubmitPath, bearer, "audioFile", req.FilePath, fields)
}

func (c *AudioClient) JobStatus(ctx context.Context, jobID string) (adapter.StatusReport, error) {
	return fetchStatus(ctx, c.client, c.base+audioStatusPath+"?id="+jobID)
}
