package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// JobMetrics records queue worker activity.
type JobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	retried  *prometheus.CounterVec
}

// NewJobMetrics registers the queue metrics on the provided registerer.
func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return &JobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "queue_job_duration_seconds",
		Help:    "Duration of queue job handler invocations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"queue", "job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_job_success_total",
		Help: "Jobs completed successfully.",
	}, []string{"queue", "job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_job_failure_total",
		Help: "Jobs that exhausted their attempts.",
	}, []string{"queue", "job"})
	retried := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_job_retry_total",
		Help: "Job attempts rescheduled with backoff.",
	}, []string{"queue", "job"})
	reg.MustRegister(duration, success, failure, retried)
	return &JobMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		retried:  retried,
	}
}

// ObserveDuration records the handler duration for the named job.
func (m *JobMetrics) ObserveDuration(queue, job string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(queue), normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (m *JobMetrics) IncSuccess(queue, job string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(queue), normalizeLabel(job)).Inc()
}

// IncFailure increments the terminal-failure counter for the named job.
func (m *JobMetrics) IncFailure(queue, job string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(queue), normalizeLabel(job)).Inc()
}

// IncRetry increments the reschedule counter for the named job.
func (m *JobMetrics) IncRetry(queue, job string) {
	if m == nil || m.retried == nil {
		return
	}
	m.retried.WithLabelValues(normalizeLabel(queue), normalizeLabel(job)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
