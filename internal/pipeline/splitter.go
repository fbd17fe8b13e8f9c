package pipeline

import (
	"context"
	"log/slog"

	"github.com/AiursoftWeb/QuestionsAgent/internal/llm"
	"github.com/AiursoftWeb/QuestionsAgent/internal/llm/prompts"
	"github.com/AiursoftWeb/QuestionsAgent/internal/model"
)

// Splitter partitions a normalized document into labeled sections with a
// single oracle call.
type Splitter struct {
	oracle llm.Completer
}

func NewSplitter(oracle llm.Completer) *Splitter {
	return &Splitter{oracle: oracle}
}

// AnalyzeSections asks the oracle for the document's section layout.
// Reported bounds are clamped into [0, len(lines)-1]; overlaps and gaps
// are passed through as returned. If the call fails or yields nothing,
// the whole document becomes one unknown section, so the pipeline always
// has at least one region to process.
func (s *Splitter) AnalyzeSections(ctx context.Context, lines []string) []model.Section {
	slog.Info("analyzing document structure", "lines", len(lines))

	prompt := prompts.BuildSegmentPrompt(lines)
	sections, err := llm.CallJSON[[]model.Section](ctx, s.oracle, prompt)
	if err != nil {
		slog.Error("failed to analyze sections", "error", err)
	} else if sections != nil {
		out := *sections
		for i := range out {
			if out[i].EndLine >= len(lines) {
				out[i].EndLine = len(lines) - 1
			}
			if out[i].StartLine < 0 {
				out[i].StartLine = 0
			}
			slog.Info("identified section",
				"type", out[i].Type, "start", out[i].StartLine, "end", out[i].EndLine)
		}
		return out
	}

	return []model.Section{
		{Type: model.SectionUnknown, StartLine: 0, EndLine: len(lines) - 1},
	}
}
