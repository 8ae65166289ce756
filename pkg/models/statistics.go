package models

// Statistics summarizes all recorded quiz rounds
type Statistics struct {
	RoundsPlayed   int     `json:"rounds_played" db:"rounds_played"`
	TotalCorrect   int     `json:"total_correct" db:"total_correct"`
	TotalQuestions int     `json:"total_questions" db:"total_questions"`
	AverageRatio   float64 `json:"average_ratio" db:"average_ratio"`
	BestRatio      float64 `json:"best_ratio" db:"best_ratio"`
}
