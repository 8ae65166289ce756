package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/levelup/pkg/models"
)

// StatisticsRepository aggregates recorded quiz rounds
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository creates a new repository instance
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// Summary returns totals over all rounds with at least one question
func (r *StatisticsRepository) Summary(ctx context.Context) (*models.Statistics, error) {
	query := `
		SELECT
			COUNT(*) AS rounds_played,
			COALESCE(SUM(score), 0) AS total_correct,
			COALESCE(SUM(total), 0) AS total_questions,
			COALESCE(AVG(CAST(score AS REAL) / total), 0) AS average_ratio,
			COALESCE(MAX(CAST(score AS REAL) / total), 0) AS best_ratio
		FROM quiz_results
		WHERE total > 0
	`
	var stats models.Statistics
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, errors.Wrap(err, "failed to get statistics")
	}
	return &stats, nil
}
