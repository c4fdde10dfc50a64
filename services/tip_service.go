package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecoHabitsAPI/internal/tip"
)

type TipService struct {
	db *pgxpool.Pool
}

func NewTipService(db *pgxpool.Pool) *TipService {
	return &TipService{db: db}
}

func (s *TipService) List(ctx context.Context, category string) ([]*tip.Tip, error) {
	query := `SELECT id, title, content, category, created_at FROM tips ORDER BY created_at DESC`
	args := []any{}
	if category != "" {
		query = `SELECT id, title, content, category, created_at FROM tips WHERE category = $1 ORDER BY created_at DESC`
		args = append(args, category)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tips: %w", err)
	}
	defer rows.Close()

	tips := []*tip.Tip{}
	for rows.Next() {
		t := &tip.Tip{}
		if err := rows.Scan(&t.ID, &t.Title, &t.Content, &t.Category, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tip: %w", err)
		}
		tips = append(tips, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tips: %w", err)
	}

	return tips, nil
}

func (s *TipService) Create(ctx context.Context, req *tip.CreateTipRequest) (*tip.Tip, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}

	t := &tip.Tip{
		ID:       uuid.New(),
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO tips (id, title, content, category, created_at) VALUES ($1, $2, $3, $4, NOW()) RETURNING created_at`,
		t.ID, t.Title, t.Content, t.Category,
	).Scan(&t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create tip: %w", err)
	}

	return t, nil
}
