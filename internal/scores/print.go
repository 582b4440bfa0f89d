package scores

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	colorReset  = "\x1b[0m"
	colorHeader = "\x1b[2m"
	colorGold   = "\x1b[33m"
)

const emptyBoardMessage = "Aucun score enregistré. Jouez pour apparaître ici!"

// Print writes the leaderboard table to w. Color is used on terminals unless
// NO_COLOR is set; forceColor overrides terminal detection.
func Print(w io.Writer, top []int, forceColor bool) error {
	lines := FormatTable(top)
	if len(lines) == 0 {
		if _, err := fmt.Fprintln(w, emptyBoardMessage); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	useColor := shouldUseColor(w, forceColor)
	for i, line := range lines {
		if useColor {
			switch i {
			case 0:
				line = colorHeader + line + colorReset
			case 1:
				line = colorGold + line + colorReset
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
