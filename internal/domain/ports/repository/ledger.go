// File: internal/domain/ports/repository/ledger.go
package repository

import "telegram-media-bots/internal/domain/model"

// FailedJobLedger records jobs that reached terminal failure or timed out,
// keyed by (chat, job id), so the user can /restart them later.
// At most one live entry per (chat, job id) pair. The ledger has no
// eviction policy; this is a known capacity gap, kept deliberately.
type FailedJobLedger interface {
	Record(chatID int64, job *model.Job)
	Find(chatID int64, jobID string) (*model.Job, bool)
	Remove(chatID int64, jobID string)
	ListByChat(chatID int64) []*model.Job
}
