package quiz

import (
	"fmt"
	"math"
)

// Percentage returns score/total as a rounded percentage.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// Feedback returns the encouragement shown on the result screen.
func Feedback(percentage int) string {
	switch {
	case percentage >= 90:
		return "Excellent! Tu es un expert!"
	case percentage >= 70:
		return "Très bien! Tu as de bonnes connaissances!"
	case percentage >= 50:
		return "Pas mal! Tu peux encore t'améliorer."
	default:
		return "Continue à apprendre, tu feras mieux la prochaine fois!"
	}
}

// ShareMessage returns a one-line summary of a finished quiz.
func ShareMessage(score, total int) string {
	return fmt.Sprintf("J'ai obtenu %d/%d (%d%%) dans le Quiz Gemini! 🎯", score, total, Percentage(score, total))
}
