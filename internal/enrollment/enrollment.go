package enrollment

import (
	"time"

	"github.com/google/uuid"

	"ecoHabitsAPI/internal/challenge"
)

type Status string

const (
	StatusOngoing  Status = "ongoing"
	StatusFinished Status = "finished"
)

type Enrollment struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	UserID       string        `json:"user_id" db:"user_id"`
	ChallengeID  uuid.UUID     `json:"challenge_id" db:"challenge_id"`
	Status       Status        `json:"status" db:"status"`
	Progress     int           `json:"progress" db:"progress"`
	JoinDate     time.Time     `json:"join_date" db:"join_date"`
	LastUpdated  time.Time     `json:"last_updated" db:"last_updated"`
	ProgressLogs []ProgressLog `json:"progress_logs"`
}

// ProgressLog entries are append-only: rows are inserted, never updated.
type ProgressLog struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Value    float64   `json:"value" db:"value"`
	LoggedAt time.Time `json:"logged_at" db:"logged_at"`
}

// EnrollmentWithChallenge pairs an enrollment with its challenge. Challenge
// is nil when the referenced challenge no longer exists.
type EnrollmentWithChallenge struct {
	Enrollment Enrollment           `json:"enrollment"`
	Challenge  *challenge.Challenge `json:"challenge"`
}

type UpdateProgressRequest struct {
	Progress    *int     `json:"progress,omitempty"`
	AddLogValue *float64 `json:"add_log_value,omitempty"`
}

// ClampProgress bounds a progress percentage to [0,100].
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// StatusFor derives the enrollment status from a clamped progress value.
func StatusFor(progress int) Status {
	if progress >= 100 {
		return StatusFinished
	}
	return StatusOngoing
}
