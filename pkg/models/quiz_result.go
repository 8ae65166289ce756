package models

import "time"

// QuizResult records one finished quiz round
type QuizResult struct {
	ID         string    `json:"id" db:"id"`
	Score      int       `json:"score" db:"score"`
	Total      int       `json:"total" db:"total"`
	StartedAt  time.Time `json:"started_at" db:"started_at"`
	FinishedAt time.Time `json:"finished_at" db:"finished_at"`
}

// Ratio returns the share of correct answers in [0, 1].
func (r QuizResult) Ratio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total)
}
