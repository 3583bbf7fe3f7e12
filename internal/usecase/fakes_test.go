// File: internal/usecase/fakes_test.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"telegram-media-bots/internal/domain/model"
	"telegram-media-bots/internal/domain/ports/adapter"
	red "telegram-media-bots/internal/infra/redis"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// fakeClock advances instantly on every Sleep and records the requested
// durations, so polling loops run deterministically.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

type fakeTokens struct {
	err           error
	calls         int
	lastThreshold time.Duration
}

func (f *fakeTokens) Credential(_ context.Context, threshold time.Duration) (model.Credential, error) {
	f.calls++
	f.lastThreshold = threshold
	if f.err != nil {
		return model.Credential{}, f.err
	}
	return model.Credential{
		AccessToken: "test-token",
		TokenType:   "Bearer",
		ExpiresAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

type fakeFiles struct {
	healthErr error
	uploadErr error
	url       string
	uploads   int
	lastPath  string
}

func (f *fakeFiles) CheckHealth(context.Context) error { return f.healthErr }

func (f *fakeFiles) Upload(_ context.Context, _ string, filePath string) (string, error) {
	f.uploads++
	f.lastPath = filePath
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.url, nil
}

// fakeAudio replays a scripted sequence of status reports; once the
// script runs out, the last report repeats.
type fakeAudio struct {
	healthErr error
	submitErr error
	statusErr error
	jobID     string
	reports   []adapter.StatusReport
	polls     int
	lastReq   adapter.TranscribeRequest
}

func (f *fakeAudio) CheckHealth(context.Context) error { return f.healthErr }

func (f *fakeAudio) Transcribe(_ context.Context, _ string, req adapter.TranscribeRequest) (string, error) {
	f.lastReq = req
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.jobID, nil
}

func (f *fakeAudio) JobStatus(context.Context, string) (adapter.StatusReport, error) {
	if f.statusErr != nil {
		return adapter.StatusReport{}, f.statusErr
	}
	i := f.polls
	if i >= len(f.reports) {
		i = len(f.reports) - 1
	}
	f.polls++
	return f.reports[i], nil
}

// fakeArchive assigns sequential job ids and replays a per-job script.
type fakeArchive struct {
	healthErr error
	submitErr error
	nextID    int
	submitted [][]string
	scripts   map[string][]adapter.StatusReport
	polls     map[string]int
}

func (f *fakeArchive) CheckHealth(context.Context) error { return f.healthErr }

func (f *fakeArchive) StartArchive(_ context.Context, _ string, urls []string) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.nextID++
	f.submitted = append(f.submitted, urls)
	return fmt.Sprintf("job-%d", f.nextID), nil
}

func (f *fakeArchive) JobStatus(_ context.Context, jobID string) (adapter.StatusReport, error) {
	script := f.scripts[jobID]
	if len(script) == 0 {
		return adapter.StatusReport{Status: model.JobStatusRunning}, nil
	}
	if f.polls == nil {
		f.polls = make(map[string]int)
	}
	i := f.polls[jobID]
	if i >= len(script) {
		i = len(script) - 1
	}
	f.polls[jobID]++
	return script[i], nil
}

type fakeBus struct {
	err       error
	published []red.InjectionRequest
}

func (f *fakeBus) Publish(_ context.Context, req red.InjectionRequest) error {
	f.published = append(f.published, req)
	return f.err
}

type fakeSummarizer struct {
	err     error
	out     string
	lastReq adapter.SummarizeRequest
}

func (f *fakeSummarizer) Summarize(_ context.Context, req adapter.SummarizeRequest) (string, error) {
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

type fakeCounter struct {
	err    error
	tokens int
	calls  int
}

func (f *fakeCounter) CountTokens(string) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.tokens, nil
}
