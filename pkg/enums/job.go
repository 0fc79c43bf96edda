package enums

import "fmt"

// JobStatus tracks a queued job through its lifecycle. Jobs move
// pending -> active -> completed, or back to pending while attempts remain,
// and land on failed once attempts are exhausted.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusActive    JobStatus = "active"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

var validJobStatuses = []JobStatus{
	JobStatusPending,
	JobStatusActive,
	JobStatusCompleted,
	JobStatusFailed,
}

// String implements fmt.Stringer.
func (j JobStatus) String() string {
	return string(j)
}

// IsValid reports whether the value is a known JobStatus.
func (j JobStatus) IsValid() bool {
	for _, candidate := range validJobStatuses {
		if candidate == j {
			return true
		}
	}
	return false
}

// ParseJobStatus converts raw input into a JobStatus.
func ParseJobStatus(value string) (JobStatus, error) {
	for _, candidate := range validJobStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job status %q", value)
}
