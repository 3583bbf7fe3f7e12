// File: internal/infra/gateway/archive_client.go
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
	archiveHealthPath = "/api/gateway/youtube/v1/health"
	archiveSubmitPath = "/api/gateway/youtube/v1/audio/get-music-archive"
	archiveStatusPath = "/api/gateway/youtube/v1/audio/get-status"
)

var _ adapter.ArchiveAPI = (*ArchiveClient)(nil)

// ArchiveClient talks to the music-archive backend: one job per chunk of
// track URLs, result is a downloadable archive link.
type ArchiveClient struct {
	base   string
	client *http.Client
	log    *zerolog.Logger
}

func NewArchiveClient(base string, timeout time.Duration, log *zerolog.Logger) (*ArchiveClient, error) {
	if base == "" {
		return nil, errors.New("archive gateway base url empty")
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &ArchiveClient{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
		log:    log,
	}, nil
}

func (c *ArchiveClient) CheckHealth(ctx context.Context) error {
	return checkHealth(ctx, c.client, c.base+archiveHealthPath)
}

func (c *ArchiveClient) StartArchive(ctx context.Context, bearer string, urls []string) (string, error) {
	payload := struct {
		URLs []string `json:"Urls"`
	}{URLs: urls}
	return submitJSON(ctx, c.client, c.base+archiveSubmitPath, bearer, payload)
}

func (c *ArchiveClient) JobStatus(ctx context.Context, jobID string) (adapter.StatusReport, error) {
	return fetchStatus(ctx, c.client, c.base+archiveStatusPath+"?jobId="+jobID)
}
