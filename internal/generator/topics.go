package generator

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadTopics reads one topic per line. Blank lines and lines starting with
// '#' are skipped.
func LoadTopics(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open topics file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only topics file.
			_ = cerr
		}
	}()

	var topics []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		topics = append(topics, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read topics file: %w", err)
	}
	topics = NormalizeTopics(topics)
	if len(topics) == 0 {
		return nil, fmt.Errorf("topics file %s is empty", path)
	}
	return topics, nil
}
