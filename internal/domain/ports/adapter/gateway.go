// File: internal/domain/ports/adapter/gateway.go
package adapter

import (
	"context"
	"time"

	"telegram-media-bots/internal/domain/model"
)

// TokenSource hands out a client-credentials bearer token, replacing it
// just-in-time when the cached one is within threshold of expiry.
// Tokens are never refreshed on a timer.
type TokenSource interface {
	Credential(ctx context.Context, threshold time.Duration) (model.Credential, error)
}

// StatusReport is one poll of a remote job.
type StatusReport struct {
	Status model.JobStatus
	Result string
	Error  string
}

// TranscribeRequest is the multipart submission for one audio file.
type TranscribeRequest struct {
	FilePath string
	Prompt   string
	APIKey   string
}

// AudioAPI is the transcription backend.
type AudioAPI interface {
	CheckHealth(ctx context.Context) error
	Transcribe(ctx context.Context, bearer string, req TranscribeRequest) (jobID string, err error)
	JobStatus(ctx context.Context, jobID string) (StatusReport, error)
}

// ArchiveAPI is the music-archive backend: one job per URL chunk.
type ArchiveAPI interface {
	CheckHealth(ctx context.Context) error
	StartArchive(ctx context.Context, bearer string, urls []string) (jobID string, err error)
	JobStatus(ctx context.Context, jobID string) (StatusReport, error)
}

// FileSharingAPI uploads a local file and returns a shareable link.
type FileSharingAPI interface {
	CheckHealth(ctx context.Context) error
	Upload(ctx context.Context, bearer, filePath string) (fileURL string, err error)
}
