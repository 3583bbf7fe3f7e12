// File: internal/infra/gateway/http.go
// Shared request plumbing for the gateway backends: health probes,
// multipart submissions and status polls all follow the same contract.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"telegram-media-bots/internal/domain"
	"telegram-media-bots/internal/domain/model"
	"telegram-media-bots/internal/domain/ports/adapter"
)

func checkHealth(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnhealthy, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnhealthy, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: health http %d", domain.ErrServiceUnhealthy, resp.StatusCode)
	}
	return nil
}

type jobSubmitResponse struct {
	JobID string `json:"jobId"`
}

// submitMultipart streams one local file plus auxiliary string fields and
// returns the backend-assigned job id. An empty or whitespace id is a
// submission failure even on HTTP 2xx.
func submitMultipart(ctx context.Context, client *http.Client, url, bearer, fileField, filePath string, fields map[string]string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: open payload: %v", domain.ErrSubmissionFailure, err)
	}
	defer f.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(fileField, filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSubmissionFailure, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSubmissionFailure, err)
	}
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSubmissionFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSubmissionFailure, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", bearer)

	return decodeJobID(client, req)
}

// submitJSON posts a JSON payload and returns the backend-assigned job id.
func submitJSON(ctx context.Context, client *http.Client, url, bearer string, payload any) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSubmissionFailure, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSubmissionFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer)

	return decodeJobID(client, req)
}

func decodeJobID(client *http.Client, req *http.Request) (string, error) {
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSubmissionFailure, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: submit http %d", domain.ErrSubmissionFailure, resp.StatusCode)
	}
	var sr jobSubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("%w: unparseable submit response", domain.ErrSubmissionFailure)
	}
	if strings.TrimSpace(sr.JobID) == "" {
		return "", fmt.Errorf("%w: empty job id", domain.ErrSubmissionFailure)
	}
	return sr.JobID, nil
}

type jobStatusResponse struct {
	Status string `json:"status"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

func fetchStatus(ctx context.Context, client *http.Client, url string) (adapter.StatusReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return adapter.StatusReport{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return adapter.StatusReport{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return adapter.StatusReport{}, fmt.Errorf("status endpoint http %d", resp.StatusCode)
	}
	var sr jobStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return adapter.StatusReport{}, fmt.Errorf("unparseable status response: %w", err)
	}
	return adapter.StatusReport{
		Status: model.ParseJobStatus(sr.Status),
		Result: sr.Result,
		Error:  sr.Error,
	}, nil
}
