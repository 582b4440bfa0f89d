package scores

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	lines := FormatTable([]int{90, 80, 7})
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != "Rang Score" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "#1      90 points" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[3] != "#3       7 points" {
		t.Fatalf("unexpected row line: %q", lines[3])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := FormatTable(nil); lines != nil {
		t.Fatalf("expected no lines, got %v", lines)
	}
}
