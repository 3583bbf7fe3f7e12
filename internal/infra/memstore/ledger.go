// File: internal/infra/memstore/ledger.go
package memstore

import (
	"sync"

	"telegram-media-bots/internal/domain/model"
	"telegram-media-bots/internal/domain/ports/repository"
)

var _ repository.FailedJobLedger = (*FailedJobLedger)(nil)

// FailedJobLedger keeps failed/timed-out jobs in memory, keyed by
// (chat, job id). No eviction: entries live until a restart removes them
// or the process exits.
type FailedJobLedger struct {
	mu      sync.RWMutex
	entries map[int64]map[string]*model.Job
}

func NewFailedJobLedger() *FailedJobLedger {
	return &FailedJobLedger{entries: make(map[int64]map[string]*model.Job)}
}

func (l *FailedJobLedger) Record(chatID int64, job *model.Job) {
	if job == nil || job.ID == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	byID := l.entries[chatID]
	if byID == nil {
		byID = make(map[string]*model.Job)
		l.entries[chatID] = byID
	}
	// At most one live entry per (chat, job id) pair.
	byID[job.ID] = job
}

func (l *FailedJobLedger) Find(chatID int64, jobID string) (*model.Job, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	job, ok := l.entries[chatID][jobID]
	return job, ok
}

func (l *FailedJobLedger) Remove(chatID int64, jobID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if byID := l.entries[chatID]; byID != nil {
		delete(byID, jobID)
		if len(byID) == 0 {
			delete(l.entries, chatID)
		}
	}
}

func (l *FailedJobLedger) ListByChat(chatID int64) []*model.Job {
	l.mu.RLock()
	defer l.mu.RUnlock()
	byID := l.entries[chatID]
	out := make([]*model.Job, 0, len(byID))
	for _, j := range byID {
		out = append(out, j)
	}
	return out
}
