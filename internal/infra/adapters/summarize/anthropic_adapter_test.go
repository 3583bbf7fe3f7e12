// File: internal/infra/adapters/summarize/anthropic_adapter_test.go
package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"telegram-media-bots/internal/domain/ports/adapter"
)

func TestAnthropicSummarize(t *testing.T) {
	var gotKey, gotVersion string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/messages" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "text", "text": "short version"}},
		})
	}))
	defer srv.Close()

	a := NewAnthropicAdapter("claude-sonnet-4-20250514", srv.URL)
	out, err := a.Summarize(context.Background(), adapter.SummarizeRequest{
		Text:   "long document",
		Prompt: "be brief",
		APIKey: "sk-ant-user",
	})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if out != "short version" {
		t.Fatalf("out = %q", out)
	}
	if gotKey != "sk-ant-user" {
		t.Fatalf("x-api-key = %q", gotKey)
	}
	if gotVersion == "" {
		t.Fatal("anthropic-version header missing")
	}
	if gotBody["system"] != "be brief" {
		t.Fatalf("system = %v", gotBody["system"])
	}
}

func TestAnthropicSummarize_RequiresKey(t *testing.T) {
	a := NewAnthropicAdapter("", "")
	if _, err := a.Summarize(context.Background(), adapter.SummarizeRequest{Text: "doc"}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestAnthropicSummarize_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewAnthropicAdapter("", srv.URL)
	if _, err := a.Summarize(context.Background(), adapter.SummarizeRequest{Text: "doc", APIKey: "k"}); err == nil {
		t.Fatal("expected error on http 429")
	}
}
