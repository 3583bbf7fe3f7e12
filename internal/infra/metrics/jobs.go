package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(jobsSubmittedTotal, jobsFinishedTotal, jobWaitSeconds, uploadsTotal)
}

var jobsSubmittedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "remote_jobs_submitted_total",
		Help: "Remote jobs submitted to a gateway backend, labeled by backend.",
	},
	[]string{"backend"}, // 'audio', 'archive'
)

var jobsFinishedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "remote_jobs_finished_total",
		Help: "Remote jobs that left polling, labeled by outcome.",
	},
	[]string{"backend", "outcome"}, // 'succeeded', 'failed', 'timed_out', 'empty_result'
)

var jobWaitSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "remote_job_wait_seconds",
		Help:    "Wall-clock time from submission to terminal outcome.",
		Buckets: []float64{5, 10, 30, 60, 120, 300, 600, 900},
	},
	[]string{"backend"},
)

var uploadsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "result_uploads_total",
		Help: "Oversized results uploaded to the file-sharing backend, by outcome.",
	},
	[]string{"outcome"}, // 'ok', 'error'
)

func IncJobSubmitted(backend string) {
	jobsSubmittedTotal.WithLabelValues(norm(backend)).Inc()
}

func IncJobFinished(backend, outcome string) {
	jobsFinishedTotal.WithLabelValues(norm(backend), norm(outcome)).Inc()
}

func ObserveJobWait(backend string, seconds float64) {
	jobWaitSeconds.WithLabelValues(norm(backend)).Observe(seconds)
}

func IncUpload(outcome string) {
	uploadsTotal.WithLabelValues(norm(outcome)).Inc()
}
