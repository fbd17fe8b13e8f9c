package parser

import (
	"io"
	"strings"
)

// TextParser passes .txt and .md files through unchanged apart from
// newline normalization.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.TrimSpace(text), nil
}
