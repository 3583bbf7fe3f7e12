// File: internal/infra/gateway/fileshare_client.go
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-media-bots/internal/domain"
	"telegram-media-bots/internal/domain/ports/adapter"
)

const (
	fileShareHealthPath = "/api/gateway/files-share/v1/health"
	fileShareUploadPath = "/api/gateway/files-share/v1/upload"
)

var _ adapter.FileSharingAPI = (*FileShareClient)(nil)

// FileShareClient uploads local files to the sharing backend and returns
// the public link from the response.
type FileShareClient struct {
	base   string
	client *http.Client
	log    *zerolog.Logger
}

func NewFileShareClient(base string, timeout time.Duration, log *zerolog.Logger) (*FileShareClient, error) {
	if base == "" {
		return nil, errors.New("file sharing base url empty")
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &FileShareClient{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
		log:    log,
	}, nil
}

func (c *FileShareClient) CheckHealth(ctx context.Context) error {
	return checkHealth(ctx, c.client, c.base+fileShareHealthPath)
}

type uploadResponse struct {
	FileURL string `json:"fileUrl"`
}

func (c *FileShareClient) Upload(ctx context.Context, bearer, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", domain.ErrUploadFailure, filePath, err)
	}
	defer f.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailure, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailure, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+fileShareUploadPath, &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailure, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", bearer)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailure, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: upload http %d", domain.ErrUploadFailure, resp.StatusCode)
	}

	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadResponseMalformed, err)
	}
	if strings.TrimSpace(ur.FileURL) == "" {
		return "", fmt.Errorf("%w: missing fileUrl", domain.ErrUploadResponseMalformed)
	}
	return ur.FileURL, nil
}
