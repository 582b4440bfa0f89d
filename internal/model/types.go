// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

var letters = [OptionCount]string{"A", "B", "C", "D"}

var letterIndex = map[string]int{"A": 0, "B": 1, "C": 2, "D": 3}

// ErrInvalidQuestion is returned when question fields fail validation.
var ErrInvalidQuestion = errors.New("invalid question")

// LetterForIndex maps an option index to its designator letter.
func LetterForIndex(idx int) (string, bool) {
	if idx < 0 || idx >= OptionCount {
		return "", false
	}
	return letters[idx], true
}

// IndexForLetter maps a designator letter to its option index.
func IndexForLetter(letter string) (int, bool) {
	idx, ok := letterIndex[strings.ToUpper(strings.TrimSpace(letter))]
	return idx, ok
}

// Question is an immutable multiple-choice question.
type Question struct {
	prompt  string
	options [OptionCount]string
	correct string
}

// NewQuestion validates the fields and builds a Question.
func NewQuestion(prompt string, options []string, correct string) (Question, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Question{}, fmt.Errorf("%w: prompt is empty", ErrInvalidQuestion)
	}
	if len(options) != OptionCount {
		return Question{}, fmt.Errorf("%w: expected %d options, got %d", ErrInvalidQuestion, OptionCount, len(options))
	}
	var q Question
	for i, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			return Question{}, fmt.Errorf("%w: option %d is empty", ErrInvalidQuestion, i)
		}
		q.options[i] = opt
	}
	idx, ok := IndexForLetter(correct)
	if !ok {
		return Question{}, fmt.Errorf("%w: unknown answer designator %q", ErrInvalidQuestion, correct)
	}
	q.prompt = prompt
	q.correct = letters[idx]
	return q, nil
}

// MustQuestion is NewQuestion for literals known to be valid.
func MustQuestion(prompt string, options []string, correct string) Question {
	q, err := NewQuestion(prompt, options, correct)
	if err != nil {
		panic(err)
	}
	return q
}

// Prompt returns the question text.
func (q Question) Prompt() string {
	return q.prompt
}

// Options returns a copy of the four answer options.
func (q Question) Options() []string {
	out := make([]string, OptionCount)
	copy(out, q.options[:])
	return out
}

// Option returns the option at idx.
func (q Question) Option(idx int) string {
	if idx < 0 || idx >= OptionCount {
		return ""
	}
	return q.options[idx]
}

// CorrectAnswer returns the designator letter of the correct option.
func (q Question) CorrectAnswer() string {
	return q.correct
}

// CorrectIndex returns the index of the correct option.
func (q Question) CorrectIndex() int {
	return letterIndex[q.correct]
}

// IsZero reports whether q was never constructed.
func (q Question) IsZero() bool {
	return q.prompt == ""
}

// FallbackQuestion is served whenever generation fails.
func FallbackQuestion() Question {
	return MustQuestion(
		"Quelle est la capitale de la France?",
		[]string{"Londres", "Paris", "Berlin", "Madrid"},
		"B",
	)
}

// QuizConfig defines play settings.
type QuizConfig struct {
	Questions int
	Topics    []string
}

// ProviderConfig defines question generation settings.
type ProviderConfig struct {
	Backend     string
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int
	TimeoutSec  int
}

// StorageConfig defines where the leaderboard is kept.
type StorageConfig struct {
	Backend       string
	Path          string
	KeyPath       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Encrypt       bool
}
