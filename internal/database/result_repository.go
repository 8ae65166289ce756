package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/levelup/pkg/models"
)

// ResultRepository handles database operations for finished quiz rounds
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new repository instance
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Create inserts a new result, assigning an ID and finish time when missing
func (r *ResultRepository) Create(ctx context.Context, result *models.QuizResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.FinishedAt.IsZero() {
		result.FinishedAt = time.Now().UTC()
	}
	if result.StartedAt.IsZero() {
		result.StartedAt = result.FinishedAt
	}

	query := r.db.Rebind(`
		INSERT INTO quiz_results (id, score, total, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		result.ID,
		result.Score,
		result.Total,
		result.StartedAt,
		result.FinishedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create quiz result")
	}
	return nil
}

// List returns the most recent results first. A limit <= 0 returns all.
func (r *ResultRepository) List(ctx context.Context, limit int) ([]models.QuizResult, error) {
	query := "SELECT id, score, total, started_at, finished_at FROM quiz_results ORDER BY finished_at DESC"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var results []models.QuizResult
	if err := r.db.SelectContext(ctx, &results, r.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "failed to list quiz results")
	}
	return results, nil
}

// Record implements session.ResultRecorder
func (r *ResultRepository) Record(ctx context.Context, result models.QuizResult) error {
	return r.Create(ctx, &result)
}
