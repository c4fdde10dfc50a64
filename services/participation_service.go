package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecoHabitsAPI/internal/challenge"
	"ecoHabitsAPI/internal/enrollment"
	"ecoHabitsAPI/internal/notification"
)

const pgUniqueViolation = "23505"

type ParticipationService struct {
	db                  *pgxpool.Pool
	notificationService *NotificationService
}

func NewParticipationService(db *pgxpool.Pool, notificationService *NotificationService) *ParticipationService {
	return &ParticipationService{
		db:                  db,
		notificationService: notificationService,
	}
}

// Join enrolls a user into a challenge. The enrollment insert and the
// participants counter bump run in one transaction, so the counter cannot
// drift from the real enrollment count. The UNIQUE (user_id, challenge_id)
// constraint makes a repeated join return the existing enrollment instead
// of creating a duplicate; created reports which case happened.
func (s *ParticipationService) Join(ctx context.Context, challengeID uuid.UUID, userID string) (*enrollment.Enrollment, bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var challengeTitle string
	err = tx.QueryRow(ctx, `SELECT title FROM challenges WHERE id = $1`, challengeID).Scan(&challengeTitle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, ErrChallengeNotFound
		}
		return nil, false, fmt.Errorf("failed to look up challenge: %w", err)
	}

	enr := &enrollment.Enrollment{
		ID:          uuid.New(),
		UserID:      userID,
		ChallengeID: challengeID,
		Status:      enrollment.StatusOngoing,
		Progress:    0,
	}

	insertQuery := `
		INSERT INTO user_challenges (id, user_id, challenge_id, status, progress, join_date, last_updated)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING join_date, last_updated
	`
	err = tx.QueryRow(ctx, insertQuery,
		enr.ID, enr.UserID, enr.ChallengeID, enr.Status, enr.Progress,
	).Scan(&enr.JoinDate, &enr.LastUpdated)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// Already joined: the transaction is aborted, read the existing
			// enrollment outside of it. Counter stays untouched.
			tx.Rollback(ctx)
			existing, loadErr := s.loadEnrollment(ctx, userID, challengeID)
			if loadErr != nil {
				return nil, false, loadErr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create enrollment: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE challenges SET participants = participants + 1, updated_at = NOW() WHERE id = $1`, challengeID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to increment participants: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	enr.ProgressLogs = []enrollment.ProgressLog{}

	if s.notificationService != nil {
		s.notificationService.Notify(ctx, userID, notification.TypeChallengeJoined,
			"Challenge joined",
			fmt.Sprintf("You joined \"%s\". Good luck!", challengeTitle),
			map[string]any{"challenge_id": challengeID.String()},
		)
	}

	return enr, true, nil
}

// UpdateProgress applies a progress percentage and/or appends a progress log
// entry. The supplied percentage is authoritative for status: finished iff
// the clamped value reaches 100. Log entries never influence the percentage.
func (s *ParticipationService) UpdateProgress(ctx context.Context, enrollmentID uuid.UUID, userID string, req *enrollment.UpdateProgressRequest) (*enrollment.Enrollment, error) {
	if req == nil || (req.Progress == nil && req.AddLogValue == nil) {
		return nil, fmt.Errorf("%w: provide progress and/or add_log_value", ErrInvalidInput)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	enr := &enrollment.Enrollment{}
	selectQuery := `
		SELECT id, user_id, challenge_id, status, progress, join_date, last_updated
		FROM user_challenges
		WHERE id = $1
		FOR UPDATE
	`
	err = tx.QueryRow(ctx, selectQuery, enrollmentID).Scan(
		&enr.ID, &enr.UserID, &enr.ChallengeID, &enr.Status, &enr.Progress, &enr.JoinDate, &enr.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	if enr.UserID != userID {
		return nil, ErrNotOwner
	}

	wasFinished := enr.Status == enrollment.StatusFinished

	if req.Progress != nil {
		enr.Progress = enrollment.ClampProgress(*req.Progress)
		enr.Status = enrollment.StatusFor(enr.Progress)
	}

	updateQuery := `
		UPDATE user_challenges
		SET progress = $1, status = $2, last_updated = NOW()
		WHERE id = $3
		RETURNING last_updated
	`
	err = tx.QueryRow(ctx, updateQuery, enr.Progress, enr.Status, enr.ID).Scan(&enr.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}

	if req.AddLogValue != nil {
		_, err = tx.Exec(ctx,
			`INSERT INTO progress_logs (id, user_challenge_id, value, logged_at) VALUES ($1, $2, $3, NOW())`,
			uuid.New(), enr.ID, *req.AddLogValue,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to append progress log: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logs, err := s.loadProgressLogs(ctx, enr.ID)
	if err != nil {
		return nil, err
	}
	enr.ProgressLogs = logs

	if !wasFinished && enr.Status == enrollment.StatusFinished && s.notificationService != nil {
		s.notificationService.Notify(ctx, userID, notification.TypeChallengeFinished,
			"Challenge finished",
			"You hit 100% on a challenge. Well done!",
			map[string]any{"enrollment_id": enr.ID.String()},
		)
	}

	return enr, nil
}

// Leave removes the enrollment and its logs, then decrements the parent
// challenge's participant counter, all in one transaction. The counter is
// guarded so it never goes below zero; a vanished parent challenge is not
// an error.
func (s *ParticipationService) Leave(ctx context.Context, enrollmentID uuid.UUID, userID string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var ownerID string
	var challengeID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT user_id, challenge_id FROM user_challenges WHERE id = $1 FOR UPDATE`,
		enrollmentID,
	).Scan(&ownerID, &challengeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEnrollmentNotFound
		}
		return fmt.Errorf("failed to get enrollment: %w", err)
	}

	if ownerID != userID {
		return ErrNotOwner
	}

	// progress_logs rows go with the enrollment via ON DELETE CASCADE.
	_, err = tx.Exec(ctx, `DELETE FROM user_challenges WHERE id = $1`, enrollmentID)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE challenges SET participants = GREATEST(participants - 1, 0), updated_at = NOW() WHERE id = $1`,
		challengeID,
	)
	if err != nil {
		return fmt.Errorf("failed to decrement participants: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListMine returns every enrollment owned by the caller, each paired with
// its challenge. A deleted challenge yields a nil Challenge instead of
// failing the whole listing.
func (s *ParticipationService) ListMine(ctx context.Context, userID string) ([]*enrollment.EnrollmentWithChallenge, error) {
	query := `
		SELECT
			uc.id, uc.user_id, uc.challenge_id, uc.status, uc.progress, uc.join_date, uc.last_updated,
			c.id, c.title, c.category, c.description, c.duration_days, c.target, c.target_unit,
			c.participants, c.created_by, c.start_date, c.end_date, c.created_at, c.updated_at
		FROM user_challenges uc
		LEFT JOIN challenges c ON c.id = uc.challenge_id
		WHERE uc.user_id = $1
		ORDER BY uc.join_date DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	results := []*enrollment.EnrollmentWithChallenge{}
	for rows.Next() {
		var enr enrollment.Enrollment
		var cID *uuid.UUID
		var cTitle, cCategory, cDescription, cTargetUnit, cCreatedBy *string
		var cDuration, cParticipants *int
		var cTarget *float64
		var cStartDate, cEndDate, cCreatedAt, cUpdatedAt *time.Time

		err := rows.Scan(
			&enr.ID, &enr.UserID, &enr.ChallengeID, &enr.Status, &enr.Progress, &enr.JoinDate, &enr.LastUpdated,
			&cID, &cTitle, &cCategory, &cDescription, &cDuration, &cTarget, &cTargetUnit,
			&cParticipants, &cCreatedBy, &cStartDate, &cEndDate, &cCreatedAt, &cUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment row: %w", err)
		}

		item := &enrollment.EnrollmentWithChallenge{Enrollment: enr}
		if cID != nil {
			item.Challenge = &challenge.Challenge{
				ID:           *cID,
				Title:        *cTitle,
				Category:     *cCategory,
				Description:  *cDescription,
				DurationDays: *cDuration,
				Target:       *cTarget,
				TargetUnit:   *cTargetUnit,
				Participants: *cParticipants,
				CreatedBy:    *cCreatedBy,
				StartDate:    *cStartDate,
				EndDate:      *cEndDate,
				CreatedAt:    *cCreatedAt,
				UpdatedAt:    *cUpdatedAt,
			}
		} else {
			log.Printf("ListMine: enrollment %s references missing challenge %s", enr.ID, enr.ChallengeID)
		}
		results = append(results, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate enrollments: %w", err)
	}

	for _, item := range results {
		logs, err := s.loadProgressLogs(ctx, item.Enrollment.ID)
		if err != nil {
			return nil, err
		}
		item.Enrollment.ProgressLogs = logs
	}

	return results, nil
}

// Get returns a single enrollment with its logs, owner only.
func (s *ParticipationService) Get(ctx context.Context, enrollmentID uuid.UUID, userID string) (*enrollment.Enrollment, error) {
	enr := &enrollment.Enrollment{}
	query := `
		SELECT id, user_id, challenge_id, status, progress, join_date, last_updated
		FROM user_challenges
		WHERE id = $1
	`
	err := s.db.QueryRow(ctx, query, enrollmentID).Scan(
		&enr.ID, &enr.UserID, &enr.ChallengeID, &enr.Status, &enr.Progress, &enr.JoinDate, &enr.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	if enr.UserID != userID {
		return nil, ErrNotOwner
	}

	logs, err := s.loadProgressLogs(ctx, enr.ID)
	if err != nil {
		return nil, err
	}
	enr.ProgressLogs = logs

	return enr, nil
}

func (s *ParticipationService) loadEnrollment(ctx context.Context, userID string, challengeID uuid.UUID) (*enrollment.Enrollment, error) {
	enr := &enrollment.Enrollment{}
	query := `
		SELECT id, user_id, challenge_id, status, progress, join_date, last_updated
		FROM user_challenges
		WHERE user_id = $1 AND challenge_id = $2
	`
	err := s.db.QueryRow(ctx, query, userID, challengeID).Scan(
		&enr.ID, &enr.UserID, &enr.ChallengeID, &enr.Status, &enr.Progress, &enr.JoinDate, &enr.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	logs, err := s.loadProgressLogs(ctx, enr.ID)
	if err != nil {
		return nil, err
	}
	enr.ProgressLogs = logs

	return enr, nil
}

func (s *ParticipationService) loadProgressLogs(ctx context.Context, enrollmentID uuid.UUID) ([]enrollment.ProgressLog, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, value, logged_at FROM progress_logs WHERE user_challenge_id = $1 ORDER BY logged_at, id`,
		enrollmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress logs: %w", err)
	}
	defer rows.Close()

	logs := []enrollment.ProgressLog{}
	for rows.Next() {
		var entry enrollment.ProgressLog
		if err := rows.Scan(&entry.ID, &entry.Value, &entry.LoggedAt); err != nil {
			return nil, fmt.Errorf("failed to scan progress log: %w", err)
		}
		logs = append(logs, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress logs: %w", err)
	}

	return logs, nil
}
