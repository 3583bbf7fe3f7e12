// File: internal/infra/telegram/errors.go
package telegram

import (
	"errors"
	"fmt"

	"telegram-media-bots/internal/domain"
)

// userMessage converts a flow error into the one chat reply the user
// sees. Each taxonomy case keeps its own wording so the user can tell a
// dead service from a bad token from a broken upload; the final tier is
// a generic diagnostic for anything unexpected.
func userMessage(err error) string {
	var failed *domain.JobFailedError
	var timedOut *domain.JobTimedOutError
	switch {
	case errors.As(err, &failed):
		return fmt.Sprintf("Job %s failed:\n%s", failed.JobID, failed.Message)
	case errors.As(err, &timedOut):
		return fmt.Sprintf("Job %s did not finish within %s. It may still complete on the backend.", timedOut.JobID, timedOut.Waited)
	case errors.Is(err, domain.ErrAuthFailure):
		return "Could not authorize against the backend. Please try again later."
	case errors.Is(err, domain.ErrServiceUnhealthy):
		return "The service is down right now. Please try again later."
	case errors.Is(err, domain.ErrSubmissionFailure):
		return "Could not submit your request. Please try again."
	case errors.Is(err, domain.ErrEmptyResult):
		return "The job finished but came back with an empty result."
	case errors.Is(err, domain.ErrUploadResponseMalformed):
		return "The file service returned an unexpected response."
	case errors.Is(err, domain.ErrUploadFailure):
		return "Could not upload the result file."
	case errors.Is(err, domain.ErrNotFound):
		return "No failed job with that id."
	case errors.Is(err, domain.ErrInvalidInput):
		return fmt.Sprintf("Invalid input: %s", err)
	default:
		// Fallback tier: type plus message, so logs and the chat line up.
		return fmt.Sprintf("%T\n%s", err, err)
	}
}
