package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// wrapText breaks text at spaces so no line exceeds width cells and styles
// each line once. Words wider than width are split.
func wrapText(text string, width int, style lipgloss.Style) string {
	lines := wrapLines(flattenWhitespace(text), width)
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}

func flattenWhitespace(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return ' '
		}
		return r
	}, text)
}

func wrapLines(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	line := make([]rune, 0, width)
	lineWidth := 0
	lastSpace := -1

	for _, r := range text {
		w := runewidth.RuneWidth(r)
		for lineWidth+w > width && len(line) > 0 {
			if lastSpace >= 0 {
				lines = append(lines, string(line[:lastSpace]))
				line = append(line[:0], line[lastSpace+1:]...)
			} else {
				lines = append(lines, string(line))
				line = line[:0]
			}
			lineWidth = runewidth.StringWidth(string(line))
			lastSpace = lastSpaceIndex(line)
		}
		line = append(line, r)
		lineWidth += w
		if r == ' ' {
			lastSpace = len(line) - 1
		}
	}
	return append(lines, string(line))
}

func lastSpaceIndex(line []rune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i] == ' ' {
			return i
		}
	}
	return -1
}
