package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const noScoresMessage = "Aucun score enregistré. Jouez pour apparaître ici!"

func (m *Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", " ", "s":
		return m, m.startQuiz()
	case "q", "esc":
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m *Model) renderHome() string {
	lines := []string{
		titleStyle.Render("Quiz Gemini"),
		wrapText(
			fmt.Sprintf("Testez vos connaissances avec %d questions générées par IA", m.questions),
			m.contentWidth(), textStyle,
		),
		"",
		titleStyle.Render("Meilleurs scores"),
	}
	lines = append(lines, m.renderTopScores()...)
	lines = append(lines, "", footerStyle.Render("entrée commencer le quiz · q quitter"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderTopScores() []string {
	if m.topLoading {
		return []string{m.spinner.View() + " " + pendingStyle.Render("Chargement des scores...")}
	}
	if len(m.top) == 0 {
		return []string{pendingStyle.Render(noScoresMessage)}
	}
	out := make([]string, 0, len(m.top))
	for i, score := range m.top {
		out = append(out, textStyle.Render(fmt.Sprintf("#%d  %d points", i+1, score)))
	}
	return out
}
