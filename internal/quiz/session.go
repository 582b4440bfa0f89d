// Package quiz implements the quiz session state machine.
package quiz

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/quizgem/internal/model"
)

// State is the phase a session is in.
type State int

// Session states.
const (
	Loading State = iota
	InProgress
	Completed
	Aborted
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case InProgress:
		return "in-progress"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrInvalidTransition is returned when an event does not apply to the current state.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrInvalidOption is returned for an option index outside the question's options.
	ErrInvalidOption = errors.New("invalid option")
	// ErrNotAnswered is returned when advancing past an unanswered question.
	ErrNotAnswered = errors.New("current question not answered")
	// ErrEmptyBatch is returned when starting a session without questions.
	ErrEmptyBatch = errors.New("empty question batch")
)

// Answer records the player's choice for one question.
type Answer struct {
	Answered bool
	Chosen   int
	Correct  bool
}

// Result is carried forward when a session completes.
type Result struct {
	Score int
	Total int
}

// Session is one play-through. Transitions return a new value and leave the
// receiver untouched.
type Session struct {
	state     State
	questions []model.Question
	answers   []Answer
	position  int
	score     int
	abortErr  error
}

// New returns a session waiting for its questions.
func New() Session {
	return Session{state: Loading}
}

// Start moves a loading session to the first question.
func (s Session) Start(questions []model.Question) (Session, error) {
	if s.state != Loading {
		return s, fmt.Errorf("%w: start from %s", ErrInvalidTransition, s.state)
	}
	if len(questions) == 0 {
		return s, ErrEmptyBatch
	}
	next := Session{
		state:     InProgress,
		questions: append([]model.Question(nil), questions...),
		answers:   make([]Answer, len(questions)),
	}
	return next, nil
}

// Abort discards a loading session after its batch failed.
func (s Session) Abort(reason error) (Session, error) {
	if s.state != Loading {
		return s, fmt.Errorf("%w: abort from %s", ErrInvalidTransition, s.state)
	}
	return Session{state: Aborted, abortErr: reason}, nil
}

// Select answers the current question. Selecting again once answered is a
// no-op that returns the first answer.
func (s Session) Select(idx int) (Session, Answer, error) {
	if s.state != InProgress {
		return s, Answer{}, fmt.Errorf("%w: select from %s", ErrInvalidTransition, s.state)
	}
	if recorded := s.answers[s.position]; recorded.Answered {
		return s, recorded, nil
	}
	if idx < 0 || idx >= model.OptionCount {
		return s, Answer{}, fmt.Errorf("%w: %d", ErrInvalidOption, idx)
	}
	ans := Answer{
		Answered: true,
		Chosen:   idx,
		Correct:  idx == s.questions[s.position].CorrectIndex(),
	}
	next := s.clone()
	next.answers[next.position] = ans
	if ans.Correct {
		next.score++
	}
	return next, ans, nil
}

// Advance moves past an answered question, completing the session after the last one.
func (s Session) Advance() (Session, error) {
	if s.state != InProgress {
		return s, fmt.Errorf("%w: advance from %s", ErrInvalidTransition, s.state)
	}
	if !s.answers[s.position].Answered {
		return s, ErrNotAnswered
	}
	next := s.clone()
	if next.position+1 < len(next.questions) {
		next.position++
		return next, nil
	}
	next.state = Completed
	return next, nil
}

func (s Session) clone() Session {
	next := s
	next.answers = append([]Answer(nil), s.answers...)
	return next
}

// State returns the current phase.
func (s Session) State() State {
	return s.state
}

// Position returns the 0-based index of the current question.
func (s Session) Position() int {
	return s.position
}

// Len returns the number of questions in the session.
func (s Session) Len() int {
	return len(s.questions)
}

// Score returns the running count of correct answers.
func (s Session) Score() int {
	return s.score
}

// Current returns the question being played.
func (s Session) Current() (model.Question, bool) {
	if s.state != InProgress {
		return model.Question{}, false
	}
	return s.questions[s.position], true
}

// CurrentAnswer returns the answer recorded for the current question.
func (s Session) CurrentAnswer() Answer {
	if s.state != InProgress {
		return Answer{}
	}
	return s.answers[s.position]
}

// IsLast reports whether the current question is the final one.
func (s Session) IsLast() bool {
	return s.position == len(s.questions)-1
}

// Result returns the final tally once the session has completed.
func (s Session) Result() (Result, bool) {
	if s.state != Completed {
		return Result{}, false
	}
	return Result{Score: s.score, Total: len(s.questions)}, true
}

// AbortReason returns why the session was aborted.
func (s Session) AbortReason() error {
	return s.abortErr
}
