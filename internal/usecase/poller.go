// File: internal/usecase/poller.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"time"

	"telegram-media-bots/internal/domain"
	"telegram-media-bots/internal/domain/model"
	"telegram-media-bots/internal/domain/ports/adapter"
)

// StatusFunc fetches the current status of one remote job.
type StatusFunc func(ctx context.Context, jobID string) (adapter.StatusReport, error)

// Poller drives a submitted job to one of exactly three outcomes:
// backend Failed (error text surfaced verbatim), backend Succeeded with a
// non-empty result, or a caller-side deadline. The deadline is policy,
// not a backend contract: the backend may still finish the job later.
type Poller struct {
	interval time.Duration
	maxWait  time.Duration
	clock    Clock
}

func NewPoller(interval, maxWait time.Duration, clock Clock) *Poller {
	if clock == nil {
		clock = NewClock()
	}
	return &Poller{interval: interval, maxWait: maxWait, clock: clock}
}

// Wait polls until terminal status or deadline and returns the result.
func (p *Poller) Wait(ctx context.Context, jobID string, fetch StatusFunc) (string, error) {
	start := p.clock.Now()
	for {
		rep, err := fetch(ctx, jobID)
		if err != nil {
			return "", err
		}

		switch rep.Status {
		case model.JobStatusFailed:
			return "", &domain.JobFailedError{JobID: jobID, Message: rep.Error}
		case model.JobStatusSucceeded:
			// An empty result on Succeeded is a delivery failure, not a
			// success; it is reported but the job is not ledgered.
			if strings.TrimSpace(rep.Result) == "" {
				return "", fmt.Errorf("job %s: %w", jobID, domain.ErrEmptyResult)
			}
			return rep.Result, nil
		}

		if elapsed := p.clock.Now().Sub(start); elapsed >= p.maxWait {
			return "", &domain.JobTimedOutError{JobID: jobID, Waited: elapsed}
		}
		if err := p.clock.Sleep(ctx, p.interval); err != nil {
			return "", err
		}
	}
}
