package model

// JobStatus mirrors the status strings the gateway backends report.
// Transitions are monotonic: Unknown/Running -> {Succeeded, Failed}.
// TimedOut is never reported by a backend; it is a caller-side outcome.
type JobStatus string

const (
	JobStatusUnknown   JobStatus = "Unknown"
	JobStatusRunning   JobStatus = "Running"
	JobStatusSucceeded JobStatus = "Succeeded"
	JobStatusFailed    JobStatus = "Failed"
)

// ParseJobStatus maps a backend status string onto the known set;
// anything unrecognized is Unknown and keeps the job polling.
func ParseJobStatus(s string) JobStatus {
	switch JobStatus(s) {
	case JobStatusRunning, JobStatusSucceeded, JobStatusFailed:
		return JobStatus(s)
	default:
		return JobStatusUnknown
	}
}

func (s JobStatus) Terminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed
}

// JobPayload is the original input retained on the job so a failed job
// can be re-submitted as-is via /restart.
type JobPayload struct {
	// FilePath points at a locally saved media file for single-file jobs.
	FilePath string
	// URLs is the ordered source list for archive (batch chunk) jobs.
	URLs []string
	// Auxiliary string fields forwarded with the submission.
	Prompt string
	APIKey string
}

// Job is one unit of remote asynchronous work, tracked by the opaque
// identifier the backend assigns on submission.
type Job struct {
	ID      string
	ChatID  int64
	Payload JobPayload
	Status  JobStatus
	Result  string
	Error   string
}

func NewJob(chatID int64, payload JobPayload) *Job {
	return &Job{ChatID: chatID, Payload: payload, Status: JobStatusUnknown}
}

// Apply records a freshly polled status report on the job.
func (j *Job) Apply(status JobStatus, result, errText string) {
	j.Status = status
	j.Result = result
	j.Error = errText
}

// ResetForRestart clears terminal state before re-submission. The backend
// assigns a new identifier on the next submit.
func (j *Job) ResetForRestart() {
	j.ID = ""
	j.Status = JobStatusUnknown
	j.Result = ""
	j.Error = ""
}
