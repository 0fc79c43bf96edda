package jobs

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estilosboom/boom-backend/pkg/config"
	"github.com/estilosboom/boom-backend/pkg/db/models"
	"github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/logger"
	"github.com/estilosboom/boom-backend/pkg/metrics"
)

// Handler executes one job attempt. A non-nil error counts the attempt
// as failed; the worker reschedules or parks the job per its policy.
type Handler func(ctx context.Context, payload json.RawMessage) error

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type workerRepository interface {
	ClaimDue(tx *gorm.DB, queue string, limit int, now, staleBefore time.Time) ([]models.Job, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, attempts int, at time.Time) error
	Reschedule(ctx context.Context, id uuid.UUID, attempts int, runAt time.Time, cause error) error
	MarkFailed(ctx context.Context, id uuid.UUID, attempts int, cause error) error
	PruneCompleted(ctx context.Context, queue string, keep int) error
	PruneFailed(ctx context.Context, queue string, keep int) error
}

// WorkerParams configures a queue worker.
type WorkerParams struct {
	Config     config.QueueConfig
	Logger     *logger.Logger
	DB         txRunner
	Repository workerRepository
	Metrics    *metrics.JobMetrics
	Queue      string
	Clock      func() time.Time
}

// Worker polls the queue for due jobs and dispatches them to registered
// handlers. Each attempt finishes (completed, rescheduled or failed)
// before the row becomes claimable again.
type Worker struct {
	cfg      config.QueueConfig
	logg     *logger.Logger
	db       txRunner
	repo     workerRepository
	metrics  *metrics.JobMetrics
	queue    string
	handlers map[string]Handler
	now      func() time.Time
}

const (
	maxIdleBackoff = 10 * time.Second
	jitterWindow   = 250 * time.Millisecond
)

func NewWorker(params WorkerParams) (*Worker, error) {
	if params.DB == nil || params.Repository == nil {
		return nil, errors.New(errors.CodeInternal, "worker requires a database and a repository")
	}
	if params.Logger == nil {
		return nil, errors.New(errors.CodeInternal, "worker requires a logger")
	}
	if params.Queue == "" {
		return nil, errors.New(errors.CodeInternal, "worker requires a queue name")
	}
	cfg := params.Config
	if cfg.PollIntervalMS <= 0 {
		cfg.PollIntervalMS = 500
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.KeepCompleted <= 0 {
		cfg.KeepCompleted = DefaultKeepCompleted
	}
	if cfg.KeepFailed <= 0 {
		cfg.KeepFailed = DefaultKeepFailed
	}
	if cfg.StaleActiveSec <= 0 {
		cfg.StaleActiveSec = DefaultStaleActiveSec
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &Worker{
		cfg:      cfg,
		logg:     params.Logger,
		db:       params.DB,
		repo:     params.Repository,
		metrics:  params.Metrics,
		queue:    params.Queue,
		handlers: make(map[string]Handler),
		now:      now,
	}, nil
}

// Register binds a handler to a job name. Registering twice is a bug.
func (w *Worker) Register(name string, handler Handler) error {
	if name == "" || handler == nil {
		return errors.New(errors.CodeInternal, "register requires a job name and a handler")
	}
	if _, ok := w.handlers[name]; ok {
		return errors.New(errors.CodeInternal, "handler already registered for job "+name)
	}
	w.handlers[name] = handler
	return nil
}

// Run polls until the context is cancelled. Poll errors back off
// exponentially instead of killing the loop.
func (w *Worker) Run(ctx context.Context) error {
	pollInterval := time.Duration(w.cfg.PollIntervalMS) * time.Millisecond
	idleBackoff := pollInterval

	w.logg.Info(w.logg.WithField(ctx, "queue", w.queue), "queue worker started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		processed, err := w.processBatch(ctx)
		switch {
		case err != nil:
			w.logg.Error(ctx, "queue poll failed", err)
			idleBackoff = nextBackoff(idleBackoff, pollInterval, maxIdleBackoff)
			if err := sleep(ctx, withJitter(idleBackoff)); err != nil {
				return err
			}
		case processed:
			idleBackoff = pollInterval
		default:
			idleBackoff = pollInterval
			if err := sleep(ctx, withJitter(pollInterval)); err != nil {
				return err
			}
		}
	}
}

// processBatch claims one batch of due jobs and runs them. It reports
// whether any job was processed so the caller can skip the idle sleep.
func (w *Worker) processBatch(ctx context.Context) (bool, error) {
	var claimed []models.Job
	err := w.db.WithTx(ctx, func(tx *gorm.DB) error {
		now := w.now().UTC()
		staleBefore := now.Add(-time.Duration(w.cfg.StaleActiveSec) * time.Second)
		var claimErr error
		claimed, claimErr = w.repo.ClaimDue(tx, w.queue, w.cfg.BatchSize, now, staleBefore)
		return claimErr
	})
	if err != nil {
		return false, err
	}
	if len(claimed) == 0 {
		return false, nil
	}

	for i := range claimed {
		w.runJob(ctx, &claimed[i])
	}

	if err := w.repo.PruneCompleted(ctx, w.queue, w.cfg.KeepCompleted); err != nil {
		w.logg.Warn(w.logg.WithField(ctx, "queue", w.queue), "prune completed jobs failed")
	}
	if err := w.repo.PruneFailed(ctx, w.queue, w.cfg.KeepFailed); err != nil {
		w.logg.Warn(w.logg.WithField(ctx, "queue", w.queue), "prune failed jobs failed")
	}
	return true, nil
}

func (w *Worker) runJob(ctx context.Context, job *models.Job) {
	jobCtx := w.logg.WithFields(ctx, map[string]any{
		"queue":   job.Queue,
		"job":     job.Name,
		"job_id":  job.ID.String(),
		"attempt": job.Attempts + 1,
	})

	handler, ok := w.handlers[job.Name]
	if !ok {
		err := errors.New(errors.CodeInternal, "no handler registered for job "+job.Name)
		w.finishFailed(jobCtx, job, job.MaxAttempts, err)
		return
	}

	started := w.now()
	err := handler(jobCtx, job.Payload)
	if w.metrics != nil {
		w.metrics.ObserveDuration(job.Queue, job.Name, w.now().Sub(started))
	}

	attempts := job.Attempts + 1
	if err == nil {
		if markErr := w.repo.MarkCompleted(jobCtx, job.ID, attempts, w.now().UTC()); markErr != nil {
			w.logg.Error(jobCtx, "mark job completed failed", markErr)
			return
		}
		if w.metrics != nil {
			w.metrics.IncSuccess(job.Queue, job.Name)
		}
		w.logg.Info(jobCtx, "job completed")
		return
	}

	if attempts >= job.MaxAttempts {
		w.finishFailed(jobCtx, job, attempts, err)
		return
	}

	delay := BackoffDelay(time.Duration(job.BackoffBaseMS)*time.Millisecond, attempts)
	runAt := w.now().UTC().Add(delay)
	if markErr := w.repo.Reschedule(jobCtx, job.ID, attempts, runAt, err); markErr != nil {
		w.logg.Error(jobCtx, "reschedule job failed", markErr)
		return
	}
	if w.metrics != nil {
		w.metrics.IncRetry(job.Queue, job.Name)
	}
	w.logg.Warn(w.logg.WithField(jobCtx, "next_run_at", runAt), "job attempt failed, rescheduled")
}

func (w *Worker) finishFailed(ctx context.Context, job *models.Job, attempts int, cause error) {
	if markErr := w.repo.MarkFailed(ctx, job.ID, attempts, cause); markErr != nil {
		w.logg.Error(ctx, "mark job failed errored", markErr)
		return
	}
	if w.metrics != nil {
		w.metrics.IncFailure(job.Queue, job.Name)
	}
	w.logg.Error(ctx, "job exhausted its attempts", cause)
}

func nextBackoff(current, base, max time.Duration) time.Duration {
	if current < base {
		return base
	}
	doubled := current * 2
	if doubled > max {
		return max
	}
	return doubled
}

func withJitter(d time.Duration) time.Duration {
	return d + time.Duration(rand.Int63n(int64(jitterWindow)))
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
