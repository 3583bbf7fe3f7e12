// File: internal/usecase/archive_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-media-bots/internal/domain"
	"telegram-media-bots/internal/domain/model"
	"telegram-media-bots/internal/domain/ports/adapter"
	"telegram-media-bots/internal/domain/ports/repository"
	"telegram-media-bots/internal/infra/metrics"
)

// interPollDelay spaces out the individual status calls inside one batch
// tick so N sibling jobs do not hammer the backend at once.
const interPollDelay = time.Second

// ChunkPreview names the boundaries of one chunk so the user can
// anticipate delivery order before anything is submitted.
type ChunkPreview struct {
	Index int
	First string
	Last  string
	Size  int
}

// ChunkOutcome is the per-chunk result in original chunk order.
type ChunkOutcome struct {
	Index    int
	JobID    string
	Delivery Delivery
	Err      error
}

// BatchReport aggregates one batch run: ordered outcomes for chunks that
// produced a result (or a delivery error), plus the job ids the user can
// /restart.
type BatchReport struct {
	Outcomes     []ChunkOutcome
	FailedJobIDs []string
}

// Compile-time check
var _ ArchiveUseCase = (*archiveUC)(nil)

type ArchiveUseCase interface {
	// Plan splits the track list into bounded chunks, one future job per
	// chunk, and returns previews for the pre-submission report.
	Plan(chatID int64, urls []string) ([]*model.Job, []ChunkPreview, error)
	// Run submits every chunk job in order, polls the whole batch to a
	// shared deadline and produces the aggregated report. Chunks still
	// non-terminal at the deadline count as failed for ledger purposes.
	Run(ctx context.Context, chatID int64, jobs []*model.Job) (*BatchReport, error)
	// Restart re-submits a ledgered job using its original payload.
	Restart(ctx context.Context, chatID int64, jobID string) (Delivery, error)
}

type archiveUC struct {
	archive    adapter.ArchiveAPI
	tokens     adapter.TokenSource
	dispatcher *Dispatcher
	ledger     repository.FailedJobLedger
	poller     *Poller
	clock      Clock
	interval   time.Duration
	maxWait    time.Duration
	maxChunk   int
	log        *zerolog.Logger
}

func NewArchiveUseCase(
	archive adapter.ArchiveAPI,
	tokens adapter.TokenSource,
	dispatcher *Dispatcher,
	ledger repository.FailedJobLedger,
	clock Clock,
	interval, maxWait time.Duration,
	maxChunk int,
	log *zerolog.Logger,
) *archiveUC {
	if clock == nil {
		clock = NewClock()
	}
	return &archiveUC{
		archive:    archive,
		tokens:     tokens,
		dispatcher: dispatcher,
		ledger:     ledger,
		poller:     NewPoller(interval, maxWait, clock),
		clock:      clock,
		interval:   interval,
		maxWait:    maxWait,
		maxChunk:   maxChunk,
		log:        log,
	}
}

// SplitChunks cuts items into consecutive chunks of at most max elements,
// preserving order.
func SplitChunks(items []string, max int) [][]string {
	if max <= 0 || len(items) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(items)+max-1)/max)
	for start := 0; start < len(items); start += max {
		end := start + max
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

func (uc *archiveUC) Plan(chatID int64, urls []string) ([]*model.Job, []ChunkPreview, error) {
	chunks := SplitChunks(urls, uc.maxChunk)
	if len(chunks) == 0 {
		return nil, nil, fmt.Errorf("%w: playlist is empty", domain.ErrInvalidInput)
	}
	jobs := make([]*model.Job, 0, len(chunks))
	previews := make([]ChunkPreview, 0, len(chunks))
	for i, chunk := range chunks {
		jobs = append(jobs, model.NewJob(chatID, model.JobPayload{URLs: chunk}))
		previews = append(previews, ChunkPreview{
			Index: i,
			First: chunk[0],
			Last:  chunk[len(chunk)-1],
			Size:  len(chunk),
		})
	}
	return jobs, previews, nil
}

func (uc *archiveUC) Run(ctx context.Context, chatID int64, jobs []*model.Job) (*BatchReport, error) {
	for i, job := range jobs {
		if err := uc.submit(ctx, job); err != nil {
			return nil, err
		}
		uc.log.Info().Str("job_id", job.ID).Int("chunk", i).Msg("archive job submitted")
		if i < len(jobs)-1 {
			if err := uc.clock.Sleep(ctx, uc.interval); err != nil {
				return nil, err
			}
		}
	}

	if err := uc.awaitAll(ctx, jobs); err != nil {
		return nil, err
	}

	report := &BatchReport{}
	for i, job := range jobs {
		switch {
		case job.Status == model.JobStatusSucceeded && strings.TrimSpace(job.Result) != "":
			metrics.IncJobFinished("archive", "succeeded")
			d, err := uc.dispatcher.Deliver(ctx, fmt.Sprintf("Part %d", i+1), job.Result)
			report.Outcomes = append(report.Outcomes, ChunkOutcome{Index: i, JobID: job.ID, Delivery: d, Err: err})
		case job.Status == model.JobStatusSucceeded:
			// Succeeded but blank: reported, never ledgered.
			metrics.IncJobFinished("archive", "empty_result")
			report.Outcomes = append(report.Outcomes, ChunkOutcome{
				Index: i, JobID: job.ID,
				Err: fmt.Errorf("job %s: %w", job.ID, domain.ErrEmptyResult),
			})
		default:
			// Failed, or still non-terminal at the shared deadline.
			if job.Status.Terminal() {
				metrics.IncJobFinished("archive", "failed")
			} else {
				metrics.IncJobFinished("archive", "timed_out")
			}
			uc.ledger.Record(chatID, job)
			report.FailedJobIDs = append(report.FailedJobIDs, job.ID)
		}
	}
	return report, nil
}

func (uc *archiveUC) Restart(ctx context.Context, chatID int64, jobID string) (Delivery, error) {
	job, ok := uc.ledger.Find(chatID, jobID)
	if !ok {
		return Delivery{}, fmt.Errorf("%w: no failed job with id %q", domain.ErrNotFound, jobID)
	}

	job.ResetForRestart()
	if err := uc.submit(ctx, job); err != nil {
		// Submission never happened; the old entry stays addressable.
		job.ID = jobID
		return Delivery{}, err
	}
	uc.log.Info().Str("old_job_id", jobID).Str("job_id", job.ID).Msg("archive job restarted")

	result, err := uc.poller.Wait(ctx, job.ID, uc.archive.JobStatus)
	if err != nil {
		uc.ledger.Remove(chatID, jobID)
		if !errors.Is(err, domain.ErrEmptyResult) {
			// Renewed failure keeps one restartable entry, now keyed by
			// the freshly assigned job id.
			uc.ledger.Record(chatID, job)
		}
		metrics.IncJobFinished("archive", outcomeLabel(err))
		return Delivery{}, err
	}

	uc.ledger.Remove(chatID, jobID)
	metrics.IncJobFinished("archive", "succeeded")
	return uc.dispatcher.Deliver(ctx, "Archive", result)
}

func (uc *archiveUC) submit(ctx context.Context, job *model.Job) error {
	if err := uc.archive.CheckHealth(ctx); err != nil {
		return err
	}
	// Batch loops widen the refresh threshold: the next use of the token
	// may be a whole polling round away.
	cred, err := uc.tokens.Credential(ctx, model.BatchRefreshThreshold)
	if err != nil {
		return err
	}
	id, err := uc.archive.StartArchive(ctx, cred.Bearer(), job.Payload.URLs)
	if err != nil {
		return err
	}
	job.ID = id
	job.Status = model.JobStatusUnknown
	metrics.IncJobSubmitted("archive")
	return nil
}

// awaitAll drives every sibling job to a terminal status or the shared
// deadline. Each tick polls the still-running jobs sequentially with a
// short delay in between.
func (uc *archiveUC) awaitAll(ctx context.Context, jobs []*model.Job) error {
	start := uc.clock.Now()
	for uc.clock.Now().Sub(start) < uc.maxWait {
		for _, job := range jobs {
			if job.Status.Terminal() {
				continue
			}
			rep, err := uc.archive.JobStatus(ctx, job.ID)
			if err != nil {
				uc.log.Warn().Str("job_id", job.ID).Err(err).Msg("status poll failed")
			} else {
				job.Apply(rep.Status, rep.Result, rep.Error)
			}
			if err := uc.clock.Sleep(ctx, interPollDelay); err != nil {
				return err
			}
		}
		if allTerminal(jobs) {
			return nil
		}
		if err := uc.clock.Sleep(ctx, uc.interval); err != nil {
			return err
		}
	}
	return nil
}

func allTerminal(jobs []*model.Job) bool {
	for _, j := range jobs {
		if !j.Status.Terminal() {
			return false
		}
	}
	return true
}
