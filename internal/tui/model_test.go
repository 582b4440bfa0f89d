package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/quizgem/internal/model"
	"github.com/verte-zerg/quizgem/internal/quiz"
	"github.com/verte-zerg/quizgem/internal/scores"
)

type fakeFetcher struct {
	questions []model.Question
	err       error
	calls     int
}

func (f *fakeFetcher) FetchBatch(_ context.Context, count int) ([]model.Question, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.questions) > count {
		return f.questions[:count], nil
	}
	return f.questions, nil
}

type fakeScores struct {
	top     []int
	loadErr error
	saveErr error
}

func (f *fakeScores) TopScores(context.Context) ([]int, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.top, nil
}

func (f *fakeScores) Save(_ context.Context, value int) scores.Saved {
	if f.saveErr != nil {
		return scores.Saved{Err: f.saveErr}
	}
	f.top = scores.Insert(f.top, value)
	return scores.Saved{OK: true, Top: f.top, Rank: scores.Rank(f.top, value)}
}

func testQuestions() []model.Question {
	return []model.Question{
		model.FallbackQuestion(),
		model.MustQuestion("Combien de pattes a une araignée?", []string{"6", "8", "10", "4"}, "B"),
	}
}

func newTestModel(f *fakeFetcher, s *fakeScores) *Model {
	return NewModel(Options{Questions: 2, Fetcher: f, Scores: s})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m *Model, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(msg)
	return cmd
}

// deliver runs cmd synchronously and feeds its message back into m.
func deliver(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	m.Update(cmd())
}

func startedModel(t *testing.T) (*Model, *fakeFetcher, *fakeScores) {
	t.Helper()
	f := &fakeFetcher{questions: testQuestions()}
	s := &fakeScores{}
	m := newTestModel(f, s)
	deliver(t, m, press(t, m, tea.KeyMsg{Type: tea.KeyEnter}))
	if m.session.State() != quiz.InProgress {
		t.Fatalf("expected in-progress session, got %s", m.session.State())
	}
	return m, f, s
}

func TestHomeShowsTopScores(t *testing.T) {
	m := newTestModel(&fakeFetcher{}, &fakeScores{top: []int{90, 70}})
	if !strings.Contains(m.View(), "Chargement des scores...") {
		t.Fatalf("expected loading indicator")
	}
	deliver(t, m, m.loadTopScores(m.gen))
	out := m.View()
	if !containsAll(out, []string{"#1  90 points", "#2  70 points", "Testez vos connaissances avec 2 questions"}) {
		t.Fatalf("home missing expected lines: %s", out)
	}
}

func TestHomeEmptyAndFailedScores(t *testing.T) {
	for _, s := range []*fakeScores{{}, {loadErr: errors.New("disk")}} {
		m := newTestModel(&fakeFetcher{}, s)
		deliver(t, m, m.loadTopScores(m.gen))
		if !strings.Contains(m.View(), noScoresMessage) {
			t.Fatalf("expected empty leaderboard message")
		}
	}
}

func TestQuizLoadingView(t *testing.T) {
	m := newTestModel(&fakeFetcher{questions: testQuestions()}, &fakeScores{})
	cmd := press(t, m, runes("s"))
	if cmd == nil || m.screen != screenQuiz {
		t.Fatalf("expected quiz screen with fetch command")
	}
	if !strings.Contains(m.View(), "Chargement des questions...") {
		t.Fatalf("expected loading view")
	}
}

func TestAnswerCorrect(t *testing.T) {
	m, _, _ := startedModel(t)
	if !containsAll(m.View(), []string{"Question 1/2", "Quelle est la capitale de la France?", "A. Londres", "D. Madrid"}) {
		t.Fatalf("unexpected question view: %s", m.View())
	}
	press(t, m, runes("b"))
	if m.session.Score() != 1 {
		t.Fatalf("expected score 1, got %d", m.session.Score())
	}
	if !containsAll(m.View(), []string{"Correct!", "Score actuel: 1/1", "Question suivante"}) {
		t.Fatalf("unexpected answered view: %s", m.View())
	}
}

func TestAnswerIncorrectWithDigit(t *testing.T) {
	m, _, _ := startedModel(t)
	press(t, m, runes("1"))
	if m.session.Score() != 0 {
		t.Fatalf("expected score 0, got %d", m.session.Score())
	}
	if !strings.Contains(m.View(), "Incorrect. La bonne réponse est B.") {
		t.Fatalf("expected incorrect feedback: %s", m.View())
	}
	press(t, m, runes("b"))
	if m.session.Score() != 0 {
		t.Fatalf("second answer must not change the score")
	}
}

func TestEnterBeforeAnswerIsIgnored(t *testing.T) {
	m, _, _ := startedModel(t)
	if cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatalf("expected no command")
	}
	if m.session.Position() != 0 {
		t.Fatalf("expected to stay on first question")
	}
}

func TestCompleteQuizSavesScore(t *testing.T) {
	m, _, s := startedModel(t)
	press(t, m, runes("b"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	press(t, m, runes("b"))
	if !strings.Contains(m.View(), "Voir le résultat") {
		t.Fatalf("expected result prompt on last question")
	}
	cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenScore {
		t.Fatalf("expected score screen")
	}
	if !strings.Contains(m.View(), "Sauvegarde de votre score...") {
		t.Fatalf("expected saving indicator")
	}
	deliver(t, m, cmd)
	out := m.View()
	if !containsAll(out, []string{"2/2", "100%", "Excellent!", "Nouveau record! #1 au classement", "J'ai obtenu 2/2 (100%)"}) {
		t.Fatalf("unexpected score view: %s", out)
	}
	if len(s.top) != 1 || s.top[0] != 2 {
		t.Fatalf("expected stored score, got %v", s.top)
	}
}

func TestSaveFailureIsShown(t *testing.T) {
	m, _, s := startedModel(t)
	s.saveErr = errors.New("read-only")
	press(t, m, runes("a"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	press(t, m, runes("a"))
	deliver(t, m, press(t, m, tea.KeyMsg{Type: tea.KeyEnter}))
	if !containsAll(m.View(), []string{"0/2", "Score non sauvegardé."}) {
		t.Fatalf("unexpected score view: %s", m.View())
	}
}

func TestScoreScreenReplayAndHome(t *testing.T) {
	m, f, _ := startedModel(t)
	m.showScore(quiz.Result{Score: 1, Total: 2})

	if cmd := press(t, m, runes("r")); cmd == nil {
		t.Fatalf("expected fetch command")
	}
	if m.screen != screenQuiz || m.session.State() != quiz.Loading {
		t.Fatalf("expected fresh loading quiz")
	}
	if f.calls != 1 {
		t.Fatalf("fetch runs only when its command executes, got %d calls", f.calls)
	}

	m.showScore(quiz.Result{Score: 1, Total: 2})
	press(t, m, runes("h"))
	if m.screen != screenHome || !m.topLoading {
		t.Fatalf("expected home screen reloading scores")
	}
}

func TestStaleBatchIsDiscarded(t *testing.T) {
	f := &fakeFetcher{questions: testQuestions()}
	m := newTestModel(f, &fakeScores{})

	first := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenHome {
		t.Fatalf("expected home screen")
	}
	second := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	deliver(t, m, first)
	if m.session.State() != quiz.Loading {
		t.Fatalf("stale batch must not start the quiz, got %s", m.session.State())
	}
	deliver(t, m, second)
	if m.session.State() != quiz.InProgress {
		t.Fatalf("expected current batch to start the quiz, got %s", m.session.State())
	}
}

func TestBatchFailureShowsAlert(t *testing.T) {
	m := newTestModel(&fakeFetcher{err: errors.New("offline")}, &fakeScores{})
	deliver(t, m, press(t, m, tea.KeyMsg{Type: tea.KeyEnter}))
	if m.session.State() != quiz.Aborted {
		t.Fatalf("expected aborted session, got %s", m.session.State())
	}
	if !strings.Contains(m.View(), loadFailedMessage) {
		t.Fatalf("expected failure alert: %s", m.View())
	}
	press(t, m, runes("b"))
	if m.screen != screenQuiz {
		t.Fatalf("only the alert action may leave the screen")
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenHome {
		t.Fatalf("expected return to home")
	}
}

func TestEmptyBatchAborts(t *testing.T) {
	m := newTestModel(&fakeFetcher{}, &fakeScores{})
	deliver(t, m, press(t, m, tea.KeyMsg{Type: tea.KeyEnter}))
	if m.session.State() != quiz.Aborted {
		t.Fatalf("expected aborted session, got %s", m.session.State())
	}
}

func TestCtrlCQuitsEverywhere(t *testing.T) {
	m, _, _ := startedModel(t)
	cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestOptionForKey(t *testing.T) {
	cases := map[string]int{"a": 0, "b": 1, "c": 2, "d": 3, "1": 0, "4": 3}
	for key, want := range cases {
		got, ok := optionForKey(key)
		if !ok || got != want {
			t.Fatalf("optionForKey(%q) = %d, %v; want %d", key, got, ok, want)
		}
	}
	for _, key := range []string{"e", "0", "5", "enter", ""} {
		if _, ok := optionForKey(key); ok {
			t.Fatalf("optionForKey(%q) should not map", key)
		}
	}
}

func TestWindowSizeSetsProgressWidth(t *testing.T) {
	m := newTestModel(&fakeFetcher{}, &fakeScores{})
	press(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.progress.Width != 70 {
		t.Fatalf("expected progress width 70, got %d", m.progress.Width)
	}
	press(t, m, tea.WindowSizeMsg{Width: 300, Height: 40})
	if m.progress.Width != 80 {
		t.Fatalf("expected capped width 80, got %d", m.progress.Width)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
