package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/AiursoftWeb/QuestionsAgent/internal/llm"
	"github.com/AiursoftWeb/QuestionsAgent/internal/llm/prompts"
	"github.com/AiursoftWeb/QuestionsAgent/internal/model"
)

// contextWindowSize is the number of lines shown to the oracle per
// extraction call.
const contextWindowSize = 40

// Extractor pulls structured question items out of one section at a time
// using a sliding-window cursor loop.
type Extractor struct {
	oracle llm.Completer
}

func NewExtractor(oracle llm.Completer) *Extractor {
	return &Extractor{oracle: oracle}
}

// ExtractSection extracts all question items from one labeled section.
// Answer-key and unknown sections hold nothing to extract, and matching
// sections are an unsupported question type; all three return empty
// without touching the oracle.
func (e *Extractor) ExtractSection(ctx context.Context, allLines []string, section model.Section, sourceFile string) []model.QuestionItem {
	sectionLines := sliceLines(allLines, section.StartLine, section.EndLine)

	slog.Info("processing section",
		"type", section.Type,
		"start", section.StartLine,
		"end", section.EndLine,
		"lines", len(sectionLines))

	switch section.Type {
	case model.SectionAnswerKey, model.SectionUnknown:
		return nil
	case model.SectionMatching:
		slog.Info("skipping matching question section")
		return nil
	}

	singleItemMode := section.Type == model.SectionChoice
	return e.runExtractionLoop(ctx, sectionLines, section.Type, sourceFile, singleItemMode)
}

// runExtractionLoop walks the section with a cursor. Each iteration
// advances the cursor by at least one line, so the loop finishes in at
// most len(lines) iterations even if every oracle call fails.
func (e *Extractor) runExtractionLoop(ctx context.Context, lines []string, sectionType model.SectionType, sourceFile string, singleItemMode bool) []model.QuestionItem {
	var results []model.QuestionItem
	cursor := 0
	totalLines := len(lines)

	for cursor < totalLines {
		windowEnd := cursor + contextWindowSize
		if windowEnd > totalLines {
			windowEnd = totalLines
		}
		window := lines[cursor:windowEnd]
		if allBlank(window) {
			break
		}

		prompt := prompts.BuildExtractPrompt(window, sectionType, singleItemMode)
		result, err := llm.CallJSON[model.ExtractionResult](ctx, e.oracle, prompt)
		if err != nil {
			slog.Error("extraction failed at window", "cursor", cursor, "error", err)
			cursor++
			continue
		}
		if result == nil || !result.Found || len(result.Data) == 0 {
			cursor++
			continue
		}

		endIndex := result.EndLineIndex
		if endIndex >= len(window) {
			endIndex = len(window) - 1
		}
		if endIndex < 0 {
			endIndex = 0
		}

		for _, q := range result.Data {
			q.Type = string(sectionType)
			q.OriginalFilename = sourceFile
			if q.Answer == "" {
				q.Answer = model.DefaultAnswer
			}
			if q.Options == nil {
				q.Options = []string{}
			}
			results = append(results, q)
			slog.Info("found question", "question", clip(q.Question, 20))
		}

		cursor += endIndex + 1
	}
	return results
}

// sliceLines returns lines[start..end] (inclusive), tolerating bounds
// outside the sequence.
func sliceLines(lines []string, start, end int) []string {
	if start < 0 {
		start = 0
	}
	if end >= len(lines) {
		end = len(lines) - 1
	}
	if start > end {
		return nil
	}
	return lines[start : end+1]
}

func allBlank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// clip shortens a string to at most n runes for log output.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
