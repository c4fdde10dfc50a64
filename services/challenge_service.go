package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecoHabitsAPI/internal/challenge"
)

type ChallengeService struct {
	db *pgxpool.Pool
}

func NewChallengeService(db *pgxpool.Pool) *ChallengeService {
	return &ChallengeService{db: db}
}

const challengeColumns = `
	id, title, category, description, duration_days, target, target_unit,
	participants, created_by, start_date, end_date, created_at, updated_at
`

func scanChallenge(row pgx.Row) (*challenge.Challenge, error) {
	c := &challenge.Challenge{}
	err := row.Scan(
		&c.ID, &c.Title, &c.Category, &c.Description, &c.DurationDays, &c.Target, &c.TargetUnit,
		&c.Participants, &c.CreatedBy, &c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ChallengeService) List(ctx context.Context, category string) ([]*challenge.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges ORDER BY created_at DESC`
	args := []any{}
	if category != "" {
		query = `SELECT ` + challengeColumns + ` FROM challenges WHERE category = $1 ORDER BY created_at DESC`
		args = append(args, category)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	challenges := []*challenge.Challenge{}
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate challenges: %w", err)
	}

	return challenges, nil
}

func (s *ChallengeService) Get(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error) {
	row := s.db.QueryRow(ctx, `SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, id)
	c, err := scanChallenge(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return c, nil
}

func (s *ChallengeService) Create(ctx context.Context, userID string, req *challenge.CreateChallengeRequest) (*challenge.Challenge, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end_date must be after start_date", ErrInvalidInput)
	}

	c := &challenge.Challenge{
		ID:           uuid.New(),
		Title:        req.Title,
		Category:     req.Category,
		Description:  req.Description,
		DurationDays: req.DurationDays,
		Target:       req.Target,
		TargetUnit:   req.TargetUnit,
		Participants: 0,
		CreatedBy:    userID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}

	query := `
		INSERT INTO challenges (id, title, category, description, duration_days, target, target_unit,
			participants, created_by, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := s.db.QueryRow(ctx, query,
		c.ID, c.Title, c.Category, c.Description, c.DurationDays, c.Target, c.TargetUnit,
		c.Participants, c.CreatedBy, c.StartDate, c.EndDate,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	return c, nil
}

func (s *ChallengeService) Update(ctx context.Context, id uuid.UUID, userID string, req *challenge.UpdateChallengeRequest) (*challenge.Challenge, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.CreatedBy != userID {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		c.Title = *req.Title
	}
	if req.Category != nil {
		c.Category = *req.Category
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.DurationDays != nil {
		c.DurationDays = *req.DurationDays
	}
	if req.Target != nil {
		c.Target = *req.Target
	}
	if req.TargetUnit != nil {
		c.TargetUnit = *req.TargetUnit
	}
	if req.StartDate != nil {
		c.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		c.EndDate = *req.EndDate
	}
	if !c.EndDate.After(c.StartDate) {
		return nil, fmt.Errorf("%w: end_date must be after start_date", ErrInvalidInput)
	}

	query := `
		UPDATE challenges
		SET title = $1, category = $2, description = $3, duration_days = $4, target = $5,
			target_unit = $6, start_date = $7, end_date = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`
	err = s.db.QueryRow(ctx, query,
		c.Title, c.Category, c.Description, c.DurationDays, c.Target,
		c.TargetUnit, c.StartDate, c.EndDate, c.ID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}

	return c, nil
}

// Delete removes a challenge, creator only. Enrollments referencing it are
// left in place; reads that join against the challenge tolerate the orphan.
func (s *ChallengeService) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	var createdBy string
	err := s.db.QueryRow(ctx, `SELECT created_by FROM challenges WHERE id = $1`, id).Scan(&createdBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrChallengeNotFound
		}
		return fmt.Errorf("failed to get challenge: %w", err)
	}
	if createdBy != userID {
		return ErrNotOwner
	}

	_, err = s.db.Exec(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}

	return nil
}
