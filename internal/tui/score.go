package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/quizgem/internal/quiz"
)

func (m *Model) updateScore(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		return m, m.startQuiz()
	case "h", "esc":
		return m, m.goHome()
	case "q":
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m *Model) renderScore() string {
	score, total := m.result.Score, m.result.Total
	pct := quiz.Percentage(score, total)
	width := m.contentWidth()

	lines := []string{
		titleStyle.Render("Quiz terminé!"),
		"",
		questionStyle.Render(fmt.Sprintf("%d/%d", score, total)),
		textStyle.Render(fmt.Sprintf("%d%%", pct)),
		wrapText(quiz.Feedback(pct), width, textStyle),
		"",
	}
	switch {
	case m.saving:
		lines = append(lines, m.spinner.View()+" "+pendingStyle.Render("Sauvegarde de votre score..."))
	case m.saved.OK && m.saved.Rank > 0:
		lines = append(lines, correctStyle.Render(fmt.Sprintf("Nouveau record! #%d au classement", m.saved.Rank)))
	case !m.saved.OK:
		lines = append(lines, pendingStyle.Render("Score non sauvegardé."))
	}
	lines = append(lines,
		"",
		wrapText(quiz.ShareMessage(score, total), width, pendingStyle),
		"",
		footerStyle.Render("r rejouer · h accueil · q quitter"),
	)
	return strings.Join(lines, "\n")
}
