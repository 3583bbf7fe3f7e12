package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Failure taxonomy for the orchestration core. Every handler maps
	// these to exactly one user-visible reply.
	ErrAuthFailure             = errors.New("unable to authorize")
	ErrServiceUnhealthy        = errors.New("service is down")
	ErrSubmissionFailure       = errors.New("job submission failed")
	ErrEmptyResult             = errors.New("result is empty")
	ErrUploadFailure           = errors.New("file upload failed")
	ErrUploadResponseMalformed = errors.New("malformed upload response")
	ErrInvalidInput            = errors.New("invalid input")
	ErrNotFound                = errors.New("entity not found")
)

// JobFailedError carries the backend-supplied error text for a job that
// reached the Failed status. The text is surfaced to the user verbatim.
type JobFailedError struct {
	JobID   string
	Message string
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("job %s failed: %s", e.JobID, e.Message)
}

// JobTimedOutError is a caller-side policy decision, not a backend status:
// the job never reached a terminal state within the allowed wait window.
type JobTimedOutError struct {
	JobID  string
	Waited time.Duration
}

func (e *JobTimedOutError) Error() string {
	return fmt.Sprintf("job %s did not finish within %s", e.JobID, e.Waited)
}
