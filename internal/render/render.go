// Package render formats quiz state as the text shown by the front ends.
package render

import (
	"fmt"
	"strings"

	"github.com/example/levelup/internal/pool"
	"github.com/example/levelup/pkg/models"
)

// MaxAnswerLength is the longest answer the input field accepts.
const MaxAnswerLength = 4

const (
	CorrectText   = "Richtig!"
	CheckLabel    = "Prüfen"
	NextLabel     = "Weiter"
	RestartLabel  = "Nochmal"
	ReminderText  = "Zeit zum Üben! Tippe /quiz für eine neue Runde."
	SuccessEffect = "  ★   ✔   ★  "
)

func Header(index, total int) string {
	return fmt.Sprintf("Frage %d / %d", index, total)
}

func Incorrect(solution int) string {
	return fmt.Sprintf("Falsch — Lösung: %d", solution)
}

func Final(score, total int) string {
	return fmt.Sprintf("Spiel beendet!\nPunkte: %d / %d", score, total)
}

// AcceptsInput reports whether the answer field would take s: digits only,
// at most MaxAnswerLength of them. The empty string is accepted.
func AcceptsInput(s string) bool {
	if len(s) > MaxAnswerLength {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Statistics renders a round summary and the facts that need most practice.
func Statistics(stats *models.Statistics, hardest []pool.Fact) string {
	var b strings.Builder
	b.WriteString("📊 Statistik\n")
	b.WriteString("------------\n")
	fmt.Fprintf(&b, "Runden:      %d\n", stats.RoundsPlayed)
	fmt.Fprintf(&b, "Richtig:     %d / %d\n", stats.TotalCorrect, stats.TotalQuestions)
	fmt.Fprintf(&b, "Durchschnitt: %.0f%%\n", stats.AverageRatio*100)
	fmt.Fprintf(&b, "Bestes:      %.0f%%\n", stats.BestRatio*100)

	if len(hardest) > 0 {
		b.WriteString("\nÜben:\n")
		for _, f := range hardest {
			fmt.Fprintf(&b, "  %d × %d  (Gewicht %d)\n", f.Key.A, f.Key.B, f.Weight)
		}
	}
	return b.String()
}
