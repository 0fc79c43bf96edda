package jobs

import "time"

// Queue and job names. The queue name predates the temporary-credentials
// job; both mail jobs ride on it.
const (
	QueueForgotPassword = "forgot-password"

	JobSendPasswordResetLink   = "sendPasswordResetLink"
	JobSendTemporalCredentials = "sendTemporalCredentials"
)

// Default delivery policy applied when the dispatcher has no configuration.
const (
	DefaultMaxAttempts   = 3
	DefaultBackoffBase   = 2000 * time.Millisecond
	DefaultKeepCompleted = 1000
	DefaultKeepFailed    = 100

	// Active rows untouched for this long are treated as abandoned by a
	// dead worker and become claimable again.
	DefaultStaleActiveSec = 300
)

// Options is the per-enqueue delivery policy stored on the job row.
type Options struct {
	MaxAttempts int
	BackoffBase time.Duration
}

// Option mutates the enqueue options.
type Option func(*Options)

// WithMaxAttempts overrides the delivery attempt budget for one job.
func WithMaxAttempts(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxAttempts = n
		}
	}
}

// WithBackoffBase overrides the exponential backoff base for one job.
func WithBackoffBase(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.BackoffBase = d
		}
	}
}

// BackoffDelay returns the delay before the next attempt after `attempt`
// failed tries: base * 2^(attempt-1). Attempts within one job are strictly
// sequential; there is no cross-job ordering.
func BackoffDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = DefaultBackoffBase
	}
	if attempt < 1 {
		attempt = 1
	}
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}
