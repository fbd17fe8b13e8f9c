package pipeline

import (
	"regexp"
	"strings"
)

var (
	imageEmbedRe  = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	questionNumRe = regexp.MustCompile(`(\s)(\d+\.)`)
	optionMarkRe  = regexp.MustCompile(`([ABCD]\.)`)
)

// NormalizeText turns raw document text into an ordered sequence of
// non-empty trimmed lines. Markdown image embeds are removed, and a line
// break is inserted before each question number ("12.") and each
// multiple-choice option marker ("A."–"D.") so that several questions or
// options packed on one physical line become separate logical lines.
func NormalizeText(content string) []string {
	text := imageEmbedRe.ReplaceAllString(content, "")
	text = questionNumRe.ReplaceAllString(text, "\n$2")
	text = optionMarkRe.ReplaceAllString(text, "\n$1")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
