package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/estilosboom/boom-backend/pkg/config"
	"github.com/estilosboom/boom-backend/pkg/db/models"
	"github.com/estilosboom/boom-backend/pkg/enums"
	"github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/logger"
)

type inserter interface {
	Insert(ctx context.Context, job *models.Job) error
}

// DispatcherParams configures a Dispatcher.
type DispatcherParams struct {
	Config     config.QueueConfig
	Logger     *logger.Logger
	Repository inserter
	Clock      func() time.Time
}

// Dispatcher enqueues durable jobs. A nil-error return from Enqueue means
// the job is persisted and will run even if the process dies immediately
// afterwards.
type Dispatcher struct {
	logg     *logger.Logger
	repo     inserter
	defaults Options
	now      func() time.Time
}

func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Repository == nil {
		return nil, errors.New(errors.CodeInternal, "dispatcher requires a repository")
	}
	if params.Logger == nil {
		return nil, errors.New(errors.CodeInternal, "dispatcher requires a logger")
	}
	defaults := Options{
		MaxAttempts: params.Config.MaxAttempts,
		BackoffBase: time.Duration(params.Config.BackoffBaseMS) * time.Millisecond,
	}
	if defaults.MaxAttempts <= 0 {
		defaults.MaxAttempts = DefaultMaxAttempts
	}
	if defaults.BackoffBase <= 0 {
		defaults.BackoffBase = DefaultBackoffBase
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		logg:     params.Logger,
		repo:     params.Repository,
		defaults: defaults,
		now:      now,
	}, nil
}

// Enqueue persists a job for asynchronous execution and returns its id.
func (d *Dispatcher) Enqueue(ctx context.Context, queue, name string, payload any, opts ...Option) (uuid.UUID, error) {
	if queue == "" || name == "" {
		return uuid.Nil, errors.New(errors.CodeInternal, "enqueue requires a queue and a job name")
	}

	options := d.defaults
	for _, opt := range opts {
		opt(&options)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, errors.Wrap(errors.CodeInternal, err, "marshal job payload")
	}

	job := models.Job{
		ID:            uuid.New(),
		Queue:         queue,
		Name:          name,
		Payload:       body,
		Status:        enums.JobStatusPending,
		Attempts:      0,
		MaxAttempts:   options.MaxAttempts,
		BackoffBaseMS: int(options.BackoffBase / time.Millisecond),
		RunAt:         d.now().UTC(),
	}
	if err := d.repo.Insert(ctx, &job); err != nil {
		return uuid.Nil, err
	}

	ctx = d.logg.WithFields(ctx, map[string]any{
		"queue":  queue,
		"job":    name,
		"job_id": job.ID.String(),
	})
	d.logg.Info(ctx, "job enqueued")
	return job.ID, nil
}
