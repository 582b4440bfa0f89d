package generator

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTopics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.txt")
	content := "# mes sujets\nastronomie\n\n  cuisine  \nAstronomie\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write topics: %v", err)
	}
	topics, err := LoadTopics(path)
	if err != nil {
		t.Fatalf("load topics: %v", err)
	}
	if len(topics) != 2 || topics[0] != "astronomie" || topics[1] != "cuisine" {
		t.Fatalf("unexpected topics: %v", topics)
	}
}

func TestLoadTopicsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.txt")
	if err := os.WriteFile(path, []byte("# rien\n\n"), 0o644); err != nil {
		t.Fatalf("write topics: %v", err)
	}
	if _, err := LoadTopics(path); err == nil {
		t.Fatalf("expected error for empty topics file")
	}
}

func TestLoadTopicsMissing(t *testing.T) {
	if _, err := LoadTopics(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
