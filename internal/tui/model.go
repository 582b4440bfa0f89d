// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/quizgem/internal/model"
	"github.com/verte-zerg/quizgem/internal/quiz"
	"github.com/verte-zerg/quizgem/internal/scores"
)

// Fetcher loads a batch of questions.
type Fetcher interface {
	FetchBatch(ctx context.Context, count int) ([]model.Question, error)
}

// ScoreKeeper reads and records leaderboard scores.
type ScoreKeeper interface {
	TopScores(ctx context.Context) ([]int, error)
	Save(ctx context.Context, value int) scores.Saved
}

type screen int

const (
	screenHome screen = iota
	screenQuiz
	screenScore
)

type topScoresMsg struct {
	gen int
	top []int
	err error
}

type questionsMsg struct {
	gen       int
	questions []model.Question
	err       error
}

type savedMsg struct {
	gen   int
	saved scores.Saved
}

// Options configures a Model.
type Options struct {
	Questions int
	Fetcher   Fetcher
	Scores    ScoreKeeper
	Logger    *zap.Logger
	Context   context.Context
}

// Model routes between the home, quiz and score screens.
type Model struct {
	ctx       context.Context
	fetcher   Fetcher
	scores    ScoreKeeper
	log       *zap.Logger
	questions int

	screen screen
	// gen increments on every navigation; async results tagged with an
	// older value are dropped.
	gen int

	width  int
	height int

	spinner  spinner.Model
	progress progress.Model

	top        []int
	topLoading bool

	session quiz.Session

	result quiz.Result
	saving bool
	saved  scores.Saved
}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	textStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	questionStyle  = textStyle.Bold(true)
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	alertStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#FF4D4F")).
			Padding(1, 2)
)

// NewModel constructs the quiz UI.
func NewModel(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Model{
		ctx:        ctx,
		fetcher:    opts.Fetcher,
		scores:     opts.Scores,
		log:        log,
		questions:  opts.Questions,
		screen:     screenHome,
		topLoading: true,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(titleStyle),
		),
		progress: progress.New(
			progress.WithSolidFill("#C89A3A"),
			progress.WithoutPercentage(),
		),
		session: quiz.New(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadTopScores(m.gen))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = m.contentWidth()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case topScoresMsg:
		m.handleTopScores(msg)
		return m, nil
	case questionsMsg:
		m.handleQuestions(msg)
		return m, nil
	case savedMsg:
		m.handleSaved(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case screenQuiz:
			return m.updateQuiz(msg)
		case screenScore:
			return m.updateScore(msg)
		default:
			return m.updateHome(msg)
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.screen {
	case screenQuiz:
		content = m.renderQuiz()
	case screenScore:
		content = m.renderScore()
	default:
		content = m.renderHome()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	width := int(float64(m.width) * 0.70)
	if width > 80 {
		width = 80
	}
	if width < 1 {
		width = 1
	}
	return width
}

func (m *Model) goHome() tea.Cmd {
	m.gen++
	m.screen = screenHome
	m.topLoading = true
	return m.loadTopScores(m.gen)
}

func (m *Model) startQuiz() tea.Cmd {
	m.gen++
	m.screen = screenQuiz
	m.session = quiz.New()
	m.log.Info("starting quiz", zap.Int("questions", m.questions))
	return m.fetchQuestions(m.gen)
}

func (m *Model) showScore(result quiz.Result) tea.Cmd {
	m.gen++
	m.screen = screenScore
	m.result = result
	m.saving = true
	m.saved = scores.Saved{}
	m.log.Info("quiz completed", zap.Int("score", result.Score), zap.Int("total", result.Total))
	return m.saveScore(m.gen, result.Score)
}

func (m *Model) loadTopScores(gen int) tea.Cmd {
	ctx, keeper := m.ctx, m.scores
	return func() tea.Msg {
		top, err := keeper.TopScores(ctx)
		return topScoresMsg{gen: gen, top: top, err: err}
	}
}

func (m *Model) fetchQuestions(gen int) tea.Cmd {
	ctx, fetcher, count := m.ctx, m.fetcher, m.questions
	return func() tea.Msg {
		questions, err := fetcher.FetchBatch(ctx, count)
		return questionsMsg{gen: gen, questions: questions, err: err}
	}
}

func (m *Model) saveScore(gen, score int) tea.Cmd {
	ctx, keeper := m.ctx, m.scores
	return func() tea.Msg {
		return savedMsg{gen: gen, saved: keeper.Save(ctx, score)}
	}
}

func (m *Model) handleTopScores(msg topScoresMsg) {
	if msg.gen != m.gen {
		return
	}
	m.topLoading = false
	if msg.err != nil {
		m.log.Warn("failed to load top scores", zap.Error(msg.err))
		m.top = nil
		return
	}
	m.top = msg.top
}

func (m *Model) handleQuestions(msg questionsMsg) {
	if msg.gen != m.gen || m.screen != screenQuiz {
		m.log.Debug("discarding stale question batch", zap.Int("gen", msg.gen), zap.Int("current", m.gen))
		return
	}
	var (
		next quiz.Session
		err  error
	)
	if msg.err != nil {
		m.log.Error("failed to load questions", zap.Error(msg.err))
		next, err = m.session.Abort(msg.err)
	} else {
		next, err = m.session.Start(msg.questions)
		if err != nil {
			m.log.Error("failed to start quiz", zap.Error(err))
			next, err = m.session.Abort(err)
		}
	}
	if err != nil {
		m.log.Error("unexpected session transition failure", zap.Error(err))
		return
	}
	m.session = next
}

func (m *Model) handleSaved(msg savedMsg) {
	// A save that lands after navigation still carries the fresh leaderboard.
	if msg.saved.OK {
		m.top = msg.saved.Top
	}
	if msg.gen != m.gen {
		return
	}
	m.saving = false
	m.saved = msg.saved
}
