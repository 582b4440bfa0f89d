package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/quizgem/internal/model"
	"github.com/verte-zerg/quizgem/internal/quiz"
)

const loadFailedMessage = "Impossible de charger les questions. Veuillez réessayer."

func (m *Model) updateQuiz(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.session.State() {
	case quiz.Loading:
		if key == "esc" {
			return m, m.goHome()
		}
	case quiz.Aborted:
		switch key {
		case "enter", "esc", "h":
			return m, m.goHome()
		}
	case quiz.InProgress:
		if key == "esc" {
			return m, m.goHome()
		}
		if idx, ok := optionForKey(key); ok {
			next, _, err := m.session.Select(idx)
			if err != nil {
				m.log.Debug("answer ignored", zap.Error(err))
				return m, nil
			}
			m.session = next
			return m, nil
		}
		if key == "enter" || key == " " {
			return m.advance()
		}
	}
	return m, nil
}

func (m *Model) advance() (tea.Model, tea.Cmd) {
	if !m.session.CurrentAnswer().Answered {
		return m, nil
	}
	next, err := m.session.Advance()
	if err != nil {
		m.log.Debug("advance ignored", zap.Error(err))
		return m, nil
	}
	m.session = next
	if result, ok := next.Result(); ok {
		return m, m.showScore(result)
	}
	return m, nil
}

// optionForKey maps a-d and 1-4 to option indexes.
func optionForKey(key string) (int, bool) {
	if idx, ok := model.IndexForLetter(key); ok {
		return idx, true
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 1 || n > model.OptionCount {
		return 0, false
	}
	return n - 1, true
}

func (m *Model) renderQuiz() string {
	switch m.session.State() {
	case quiz.Loading:
		return m.spinner.View() + " " + textStyle.Render("Chargement des questions...")
	case quiz.Aborted:
		body := incorrectStyle.Render("Erreur") + "\n\n" +
			textStyle.Render(loadFailedMessage) + "\n\n" +
			footerStyle.Render("entrée retour à l'accueil")
		return alertStyle.Render(body)
	}

	q, ok := m.session.Current()
	if !ok {
		return ""
	}
	width := m.contentWidth()
	pos, total := m.session.Position(), m.session.Len()

	lines := []string{
		pendingStyle.Render(progressLabel(pos, total)),
		m.progress.ViewAs(float64(pos+1) / float64(total)),
		"",
		wrapText(q.Prompt(), width, questionStyle),
		"",
	}
	answer := m.session.CurrentAnswer()
	lines = append(lines, renderOptions(q, answer, width)...)
	lines = append(lines, "")
	if answer.Answered {
		lines = append(lines, renderFeedback(q, answer))
		lines = append(lines, "")
	}
	lines = append(lines,
		pendingStyle.Render(fmt.Sprintf("Score actuel: %d/%d", m.session.Score(), pos+1)),
		footerStyle.Render(m.quizFooter(answer)),
	)
	return strings.Join(lines, "\n")
}

func (m *Model) quizFooter(answer quiz.Answer) string {
	if !answer.Answered {
		return "a-d ou 1-4 répondre · esc accueil"
	}
	if m.session.IsLast() {
		return "entrée Voir le résultat · esc accueil"
	}
	return "entrée Question suivante · esc accueil"
}

func progressLabel(pos, total int) string {
	return fmt.Sprintf("Question %d/%d", pos+1, total)
}

func renderOptions(q model.Question, answer quiz.Answer, width int) []string {
	out := make([]string, 0, model.OptionCount)
	for i, option := range q.Options() {
		letter, _ := model.LetterForIndex(i)
		style := textStyle
		marker := ""
		if answer.Answered {
			switch {
			case i == q.CorrectIndex():
				style = correctStyle
				marker = " ✓"
			case i == answer.Chosen:
				style = incorrectStyle
				marker = " ✗"
			default:
				style = pendingStyle
			}
		}
		out = append(out, wrapText(fmt.Sprintf("%s. %s%s", letter, option, marker), width, style))
	}
	return out
}

func renderFeedback(q model.Question, answer quiz.Answer) string {
	if answer.Correct {
		return correctStyle.Render("Correct!")
	}
	return incorrectStyle.Render(fmt.Sprintf("Incorrect. La bonne réponse est %s.", q.CorrectAnswer()))
}
