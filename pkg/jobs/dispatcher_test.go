package jobs

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/estilosboom/boom-backend/pkg/config"
	"github.com/estilosboom/boom-backend/pkg/db/models"
	"github.com/estilosboom/boom-backend/pkg/enums"
	"github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/logger"
)

type stubInserter struct {
	inserted []models.Job
	err      error
}

func (s *stubInserter) Insert(_ context.Context, job *models.Job) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, *job)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestDispatcher(t *testing.T, repo inserter) *Dispatcher {
	t.Helper()
	dispatcher, err := NewDispatcher(DispatcherParams{
		Config: config.QueueConfig{
			MaxAttempts:   3,
			BackoffBaseMS: 2000,
		},
		Logger:     testLogger(),
		Repository: repo,
		Clock: func() time.Time {
			return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
		},
	})
	if err != nil {
		t.Fatalf("expected dispatcher, got error: %v", err)
	}
	return dispatcher
}

func TestDispatcherEnqueuePersistsPendingJob(t *testing.T) {
	repo := &stubInserter{}
	dispatcher := newTestDispatcher(t, repo)

	payload := map[string]string{"email": "cliente@example.com"}
	id, err := dispatcher.Enqueue(context.Background(), QueueForgotPassword, JobSendPasswordResetLink, payload)
	if err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected one inserted job, got %d", len(repo.inserted))
	}

	job := repo.inserted[0]
	if job.ID != id {
		t.Fatalf("expected returned id to match inserted job")
	}
	if job.Queue != QueueForgotPassword || job.Name != JobSendPasswordResetLink {
		t.Fatalf("unexpected queue/name: %s/%s", job.Queue, job.Name)
	}
	if job.Status != enums.JobStatusPending {
		t.Fatalf("expected pending status, got %s", job.Status)
	}
	if job.Attempts != 0 {
		t.Fatalf("expected zero attempts, got %d", job.Attempts)
	}
	if job.MaxAttempts != 3 || job.BackoffBaseMS != 2000 {
		t.Fatalf("expected configured policy on the row, got %d/%d", job.MaxAttempts, job.BackoffBaseMS)
	}
	if !job.RunAt.Equal(time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected job due immediately, got %s", job.RunAt)
	}
	if string(job.Payload) != `{"email":"cliente@example.com"}` {
		t.Fatalf("unexpected payload: %s", job.Payload)
	}
}

func TestDispatcherEnqueueAppliesOverrides(t *testing.T) {
	repo := &stubInserter{}
	dispatcher := newTestDispatcher(t, repo)

	_, err := dispatcher.Enqueue(
		context.Background(),
		QueueForgotPassword,
		JobSendTemporalCredentials,
		map[string]string{},
		WithMaxAttempts(5),
		WithBackoffBase(500*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}

	job := repo.inserted[0]
	if job.MaxAttempts != 5 || job.BackoffBaseMS != 500 {
		t.Fatalf("expected overridden policy, got %d/%d", job.MaxAttempts, job.BackoffBaseMS)
	}
}

func TestDispatcherEnqueueValidatesInput(t *testing.T) {
	dispatcher := newTestDispatcher(t, &stubInserter{})

	if _, err := dispatcher.Enqueue(context.Background(), "", JobSendPasswordResetLink, nil); err == nil {
		t.Fatalf("expected error for empty queue")
	}
	if _, err := dispatcher.Enqueue(context.Background(), QueueForgotPassword, "", nil); err == nil {
		t.Fatalf("expected error for empty job name")
	}
}

func TestDispatcherEnqueuePropagatesInsertError(t *testing.T) {
	repo := &stubInserter{err: errors.New(errors.CodeInternal, "database unavailable")}
	dispatcher := newTestDispatcher(t, repo)

	if _, err := dispatcher.Enqueue(context.Background(), QueueForgotPassword, JobSendPasswordResetLink, nil); err == nil {
		t.Fatalf("expected insert error to propagate")
	}
}
