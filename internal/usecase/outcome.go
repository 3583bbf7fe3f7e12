package usecase

import (
	"errors"

	"telegram-media-bots/internal/domain"
)

// outcomeLabel maps a poll error onto a metrics label.
func outcomeLabel(err error) string {
	var failed *domain.JobFailedError
	var timedOut *domain.JobTimedOutError
	switch {
	case errors.As(err, &failed):
		return "failed"
	case errors.As(err, &timedOut):
		return "timed_out"
	case errors.Is(err, domain.ErrEmptyResult):
		return "empty_result"
	default:
		return "error"
	}
}
