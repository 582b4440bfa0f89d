package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetterTableRoundTrip(t *testing.T) {
	for i := 0; i < OptionCount; i++ {
		letter, ok := LetterForIndex(i)
		require.True(t, ok)
		idx, ok := IndexForLetter(letter)
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}
	_, ok := LetterForIndex(4)
	assert.False(t, ok)
	_, ok = IndexForLetter("E")
	assert.False(t, ok)
	idx, ok := IndexForLetter(" c ")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestNewQuestionValidates(t *testing.T) {
	opts := []string{"Londres", "Paris", "Berlin", "Madrid"}
	tests := []struct {
		name    string
		prompt  string
		options []string
		correct string
	}{
		{"empty prompt", "  ", opts, "A"},
		{"three options", "Q?", opts[:3], "A"},
		{"blank option", "Q?", []string{"a", "", "c", "d"}, "A"},
		{"bad designator", "Q?", opts, "E"},
		{"empty designator", "Q?", opts, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuestion(tt.prompt, tt.options, tt.correct)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidQuestion))
		})
	}
}

func TestNewQuestionNormalizesDesignator(t *testing.T) {
	q, err := NewQuestion("Capitale?", []string{"L", "P", "Be", "Ma"}, " b")
	require.NoError(t, err)
	assert.Equal(t, "B", q.CorrectAnswer())
	assert.Equal(t, 1, q.CorrectIndex())
}

func TestQuestionOptionsAreCopied(t *testing.T) {
	q := FallbackQuestion()
	opts := q.Options()
	opts[0] = "changed"
	assert.Equal(t, "Londres", q.Option(0))
	assert.Equal(t, "", q.Option(7))
}

func TestFallbackQuestion(t *testing.T) {
	q := FallbackQuestion()
	assert.Equal(t, "Quelle est la capitale de la France?", q.Prompt())
	assert.Equal(t, []string{"Londres", "Paris", "Berlin", "Madrid"}, q.Options())
	assert.Equal(t, "B", q.CorrectAnswer())
	assert.False(t, q.IsZero())
	assert.True(t, Question{}.IsZero())
}
