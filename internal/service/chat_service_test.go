package service

import (
	"strings"
	"testing"
)

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"short stays intact", "How do I apply?", "How do I apply?"},
		{"exact limit stays intact", strings.Repeat("a", sessionTitleMaxChars), strings.Repeat("a", sessionTitleMaxChars)},
		{"long gets ellipsis", strings.Repeat("a", sessionTitleMaxChars+10), strings.Repeat("a", sessionTitleMaxChars) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateTitle(tt.message); got != tt.want {
				t.Errorf("truncateTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateTitleMultibyte(t *testing.T) {
	// Truncation counts runes, not bytes, so multibyte text never splits.
	long := strings.Repeat("ké", sessionTitleMaxChars)
	got := truncateTitle(long)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("long title not truncated: %q", got)
	}
	if len([]rune(got)) != sessionTitleMaxChars+3 {
		t.Errorf("truncated to %d runes, want %d", len([]rune(got))-3, sessionTitleMaxChars)
	}
}
