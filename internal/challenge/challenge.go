package challenge

import (
	"time"

	"github.com/google/uuid"
)

type Challenge struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Category     string    `json:"category" db:"category"`
	Description  string    `json:"description" db:"description"`
	DurationDays int       `json:"duration_days" db:"duration_days"`
	Target       float64   `json:"target" db:"target"`
	TargetUnit   string    `json:"target_unit" db:"target_unit"`
	Participants int       `json:"participants" db:"participants"`
	CreatedBy    string    `json:"created_by" db:"created_by"`
	StartDate    time.Time `json:"start_date" db:"start_date"`
	EndDate      time.Time `json:"end_date" db:"end_date"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type CreateChallengeRequest struct {
	Title        string    `json:"title" validate:"required"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	DurationDays int       `json:"duration_days"`
	Target       float64   `json:"target"`
	TargetUnit   string    `json:"target_unit"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" validate:"required"`
}

type UpdateChallengeRequest struct {
	Title        *string    `json:"title,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Description  *string    `json:"description,omitempty"`
	DurationDays *int       `json:"duration_days,omitempty"`
	Target       *float64   `json:"target,omitempty"`
	TargetUnit   *string    `json:"target_unit,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}
