package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/estilosboom/boom-backend/pkg/db/models"
	"github.com/estilosboom/boom-backend/pkg/enums"
	"github.com/estilosboom/boom-backend/pkg/errors"
)

// Repository persists queue jobs. Claiming runs inside a caller-provided
// transaction so concurrent workers never pick up the same row.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New(errors.CodeInternal, "jobs repository requires a database handle")
	}
	return &Repository{db: db}, nil
}

// Insert stores a new pending job. Returning without error is the
// acceptance acknowledgement: the job survives a process crash from
// this point on.
func (r *Repository) Insert(ctx context.Context, job *models.Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return errors.Wrap(errors.CodeInternal, err, "insert job")
	}
	return nil
}

// ClaimDue locks up to limit due pending jobs on the queue and flips them
// to active. Locked rows held by other workers are skipped. Active rows not
// touched since staleBefore are reclaimed too: their worker died mid-attempt
// (or failed to record the outcome), and without the reclaim they would
// never become claimable again. Claiming bumps updated_at, so a healthy
// in-flight attempt is never stolen within the visibility window.
func (r *Repository) ClaimDue(tx *gorm.DB, queue string, limit int, now, staleBefore time.Time) ([]models.Job, error) {
	var jobs []models.Job
	query := tx
	// sqlite has no row locks; its writer lock already serializes claims.
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	}
	err := query.
		Where(
			"queue = ? AND ((status = ? AND run_at <= ?) OR (status = ? AND updated_at <= ?))",
			queue, enums.JobStatusPending, now, enums.JobStatusActive, staleBefore,
		).
		Order("run_at ASC, created_at ASC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "claim due jobs")
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(jobs))
	for i := range jobs {
		ids = append(ids, jobs[i].ID)
	}
	err = tx.Model(&models.Job{}).
		Where("id IN ?", ids).
		Update("status", enums.JobStatusActive).Error
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "mark jobs active")
	}
	for i := range jobs {
		jobs[i].Status = enums.JobStatusActive
	}
	return jobs, nil
}

// MarkCompleted records a successful attempt.
func (r *Repository) MarkCompleted(ctx context.Context, id uuid.UUID, attempts int, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       enums.JobStatusCompleted,
			"attempts":     attempts,
			"completed_at": at,
			"last_error":   nil,
		}).Error
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "mark job completed")
	}
	return nil
}

// Reschedule returns a failed job to pending with its next due time.
func (r *Repository) Reschedule(ctx context.Context, id uuid.UUID, attempts int, runAt time.Time, cause error) error {
	err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     enums.JobStatusPending,
			"attempts":   attempts,
			"run_at":     runAt,
			"last_error": cause.Error(),
		}).Error
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "reschedule job")
	}
	return nil
}

// MarkFailed parks a job whose attempt budget is exhausted. The row is
// kept for inspection until retention pruning removes it.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, cause error) error {
	err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     enums.JobStatusFailed,
			"attempts":   attempts,
			"last_error": cause.Error(),
		}).Error
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "mark job failed")
	}
	return nil
}

// PruneCompleted keeps the newest keep completed jobs on the queue and
// deletes the rest.
func (r *Repository) PruneCompleted(ctx context.Context, queue string, keep int) error {
	err := r.db.WithContext(ctx).Exec(`
		DELETE FROM jobs
		WHERE queue = ? AND status = ?
		  AND id NOT IN (
			SELECT id FROM jobs
			WHERE queue = ? AND status = ?
			ORDER BY completed_at DESC
			LIMIT ?
		  )`,
		queue, enums.JobStatusCompleted, queue, enums.JobStatusCompleted, keep,
	).Error
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "prune completed jobs")
	}
	return nil
}

// PruneFailed keeps the newest keep failed jobs on the queue and deletes
// the rest.
func (r *Repository) PruneFailed(ctx context.Context, queue string, keep int) error {
	err := r.db.WithContext(ctx).Exec(`
		DELETE FROM jobs
		WHERE queue = ? AND status = ?
		  AND id NOT IN (
			SELECT id FROM jobs
			WHERE queue = ? AND status = ?
			ORDER BY updated_at DESC
			LIMIT ?
		  )`,
		queue, enums.JobStatusFailed, queue, enums.JobStatusFailed, keep,
	).Error
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "prune failed jobs")
	}
	return nil
}
