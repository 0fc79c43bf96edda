package models

import (
	"encoding/json"
	"time"

	"github.com/estilosboom/boom-backend/pkg/enums"
	"github.com/google/uuid"
)

// Job is a durable queue message. The row itself carries the delivery policy
// so the worker never needs dispatcher-side state: attempts remaining and the
// backoff base travel with the payload.
type Job struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Queue         string          `gorm:"column:queue;not null;index:ix_jobs_queue_status_run_at,priority:1"`
	Name          string          `gorm:"column:name;not null"`
	Payload       json.RawMessage `gorm:"column:payload;type:jsonb;not null"`
	Status        enums.JobStatus `gorm:"column:status;type:text;not null;default:'pending';index:ix_jobs_queue_status_run_at,priority:2"`
	Attempts      int             `gorm:"column:attempts;not null;default:0"`
	MaxAttempts   int             `gorm:"column:max_attempts;not null;default:3"`
	BackoffBaseMS int             `gorm:"column:backoff_base_ms;not null;default:2000"`
	RunAt         time.Time       `gorm:"column:run_at;not null;index:ix_jobs_queue_status_run_at,priority:3"`
	LastError     *string         `gorm:"column:last_error"`
	CompletedAt   *time.Time      `gorm:"column:completed_at"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
