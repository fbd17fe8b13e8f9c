package pipeline

import (
	"strings"
	"testing"
)

func TestNormalizeTextRemovesImages(t *testing.T) {
	got := NormalizeText("Some text ![figure](path/to/image.png) more text")
	joined := strings.Join(got, " ")
	if strings.Contains(joined, "![figure]") || strings.Contains(joined, "image.png") {
		t.Errorf("image embed should be removed, got %v", got)
	}
	if !strings.Contains(joined, "Some text") || !strings.Contains(joined, "more text") {
		t.Errorf("surrounding text should survive, got %v", got)
	}
}

func TestNormalizeTextBreaksOnQuestionNumbers(t *testing.T) {
	got := NormalizeText("Intro 1. First question 2. Second question")

	if !containsLine(got, "1. First question") {
		t.Errorf("expected a line starting with 1., got %v", got)
	}
	if !containsLine(got, "2. Second question") {
		t.Errorf("expected a line starting with 2., got %v", got)
	}
}

func TestNormalizeTextBreaksOnOptions(t *testing.T) {
	got := NormalizeText("Question text A. Option one B. Option two C. Option three D. Option four")

	for _, want := range []string{"A. Option one", "B. Option two", "C. Option three", "D. Option four"} {
		if !containsLinePrefix(got, want) {
			t.Errorf("expected a line starting with %q, got %v", want, got)
		}
	}
}

func TestNormalizeTextDropsBlankLines(t *testing.T) {
	got := NormalizeText("first\n\n   \n\t\nsecond\n")
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %v", got)
	}
	if got[0] != "first" || got[1] != "second" {
		t.Errorf("got %v", got)
	}
}

// Every output line is non-empty after trimming, and trimming again is a
// no-op.
func TestNormalizeTextLinesAreTrimmed(t *testing.T) {
	got := NormalizeText("  padded line  \r\nanother one \n1. q A. a B. b")
	if len(got) == 0 {
		t.Fatal("expected output lines")
	}
	for _, line := range got {
		if strings.TrimSpace(line) == "" {
			t.Errorf("blank line in output: %q", line)
		}
		if strings.TrimSpace(line) != line {
			t.Errorf("line not trimmed: %q", line)
		}
	}
}

func TestNormalizeTextEmptyInput(t *testing.T) {
	if got := NormalizeText(""); len(got) != 0 {
		t.Errorf("expected no lines, got %v", got)
	}
	if got := NormalizeText("  \n \t \n"); len(got) != 0 {
		t.Errorf("expected no lines for whitespace input, got %v", got)
	}
}

func containsLine(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}

func containsLinePrefix(lines []string, prefix string) bool {
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}
