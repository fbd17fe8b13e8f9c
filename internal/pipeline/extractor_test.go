package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/AiursoftWeb/QuestionsAgent/internal/model"
)

func TestExtractSectionSkipsNonExtractableTypes(t *testing.T) {
	lines := []string{"Answer 1", "Answer 2"}

	for _, typ := range []model.SectionType{model.SectionAnswerKey, model.SectionUnknown, model.SectionMatching} {
		t.Run(string(typ), func(t *testing.T) {
			oracle := failingOracle()
			section := model.Section{Type: typ, StartLine: 0, EndLine: 1}

			got := NewExtractor(oracle).ExtractSection(context.Background(), lines, section, "test.md")

			if len(got) != 0 {
				t.Errorf("expected no items, got %v", got)
			}
			if oracle.calls != 0 {
				t.Errorf("expected zero oracle calls, got %d", oracle.calls)
			}
		})
	}
}

func TestExtractSectionStampsItems(t *testing.T) {
	lines := []string{
		"1. What is AI?",
		"A. Artificial Intelligence",
		"B. Automated Internet",
	}
	section := model.Section{Type: model.SectionChoice, StartLine: 0, EndLine: 2}
	oracle := &fakeOracle{fn: func(int, string) (string, error) {
		// The oracle lies about type and filename; the extractor must
		// overwrite both.
		return `{
			"found": true,
			"end_line_index": 2,
			"data": [{
				"type": "short-answer",
				"question": "What is AI?",
				"options": ["A. Artificial Intelligence", "B. Automated Internet"],
				"originalFilename": "wrong.md"
			}]
		}`, nil
	}}

	got := NewExtractor(oracle).ExtractSection(context.Background(), lines, section, "demo.md")

	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %v", got)
	}
	item := got[0]
	if item.Type != string(model.SectionChoice) {
		t.Errorf("type = %q, want %q", item.Type, model.SectionChoice)
	}
	if item.OriginalFilename != "demo.md" {
		t.Errorf("originalFilename = %q, want demo.md", item.OriginalFilename)
	}
	if item.Question != "What is AI?" {
		t.Errorf("question = %q", item.Question)
	}
	if len(item.Options) != 2 {
		t.Errorf("options = %v", item.Options)
	}
	if item.Answer != model.DefaultAnswer {
		t.Errorf("answer = %q, want default %q", item.Answer, model.DefaultAnswer)
	}
	if oracle.calls != 1 {
		t.Errorf("expected 1 oracle call, got %d", oracle.calls)
	}
}

func TestExtractSectionSingleItemModeForChoiceOnly(t *testing.T) {
	lines := []string{"1. q", "A. a"}
	response := `{"found": true, "end_line_index": 1, "data": [{"question": "q"}]}`

	choiceOracle := &fakeOracle{fn: func(int, string) (string, error) { return response, nil }}
	NewExtractor(choiceOracle).ExtractSection(context.Background(), lines,
		model.Section{Type: model.SectionChoice, StartLine: 0, EndLine: 1}, "t.md")
	if !strings.Contains(choiceOracle.prompts[0], "FIRST complete") {
		t.Error("choice sections should use single-item mode")
	}

	fillOracle := &fakeOracle{fn: func(int, string) (string, error) { return response, nil }}
	NewExtractor(fillOracle).ExtractSection(context.Background(), lines,
		model.Section{Type: model.SectionFillBlank, StartLine: 0, EndLine: 1}, "t.md")
	if !strings.Contains(fillOracle.prompts[0], "ALL contiguous") {
		t.Error("non-choice sections should use multi-item mode")
	}
}

func TestExtractSectionMultipleItemsPerWindow(t *testing.T) {
	lines := []string{"1. tragedy 2. comedy"}
	section := model.Section{Type: model.SectionTermDefinition, StartLine: 0, EndLine: 0}
	oracle := &fakeOracle{fn: func(int, string) (string, error) {
		return `{
			"found": true,
			"end_line_index": 0,
			"data": [{"question": "tragedy"}, {"question": "comedy"}]
		}`, nil
	}}

	got := NewExtractor(oracle).ExtractSection(context.Background(), lines, section, "t.md")

	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %v", got)
	}
	if got[0].Question != "tragedy" || got[1].Question != "comedy" {
		t.Errorf("got %v", got)
	}
}

func TestExtractSectionCursorAdvancesByReportedEnd(t *testing.T) {
	var lines []string
	for i := 0; i < 6; i++ {
		lines = append(lines, fmt.Sprintf("%d. question", i+1))
	}
	section := model.Section{Type: model.SectionShortAnswer, StartLine: 0, EndLine: 5}

	oracle := &fakeOracle{fn: func(call int, _ string) (string, error) {
		// Each window consumes 3 lines: two calls cover all 6.
		return fmt.Sprintf(`{"found": true, "end_line_index": 2, "data": [{"question": "q%d"}]}`, call), nil
	}}

	got := NewExtractor(oracle).ExtractSection(context.Background(), lines, section, "t.md")

	if oracle.calls != 2 {
		t.Errorf("expected 2 windows, got %d calls", oracle.calls)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 items, got %v", got)
	}
	// The second window must start at the line after the reported end.
	if len(oracle.prompts) == 2 && !strings.Contains(oracle.prompts[1], "[L0] 4. question") {
		t.Errorf("second window should start at line 3 of the section:\n%s", oracle.prompts[1])
	}
}

func TestExtractSectionClampsReportedEndLineIndex(t *testing.T) {
	lines := []string{"1. q", "A. a", "B. b"}
	section := model.Section{Type: model.SectionChoice, StartLine: 0, EndLine: 2}
	oracle := &fakeOracle{fn: func(int, string) (string, error) {
		return `{"found": true, "end_line_index": 500, "data": [{"question": "q"}]}`, nil
	}}

	got := NewExtractor(oracle).ExtractSection(context.Background(), lines, section, "t.md")

	// A wildly large end index clamps to the window end, so the whole
	// window is consumed in one step.
	if oracle.calls != 1 {
		t.Errorf("expected 1 call after clamping, got %d", oracle.calls)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 item, got %v", got)
	}
}

func TestExtractSectionNegativeEndLineIndexAdvancesOneLine(t *testing.T) {
	lines := []string{"1. q", "2. q"}
	section := model.Section{Type: model.SectionShortAnswer, StartLine: 0, EndLine: 1}
	oracle := &fakeOracle{fn: func(int, string) (string, error) {
		return `{"found": true, "end_line_index": -7, "data": [{"question": "q"}]}`, nil
	}}

	got := NewExtractor(oracle).ExtractSection(context.Background(), lines, section, "t.md")

	if oracle.calls != 2 {
		t.Errorf("negative end index clamps to 0, so one line per window; calls = %d, want 2", oracle.calls)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 items, got %v", got)
	}
}

func TestExtractSectionNotFoundAdvancesOneLine(t *testing.T) {
	lines := []string{"noise", "noise", "noise"}
	section := model.Section{Type: model.SectionFillBlank, StartLine: 0, EndLine: 2}
	oracle := &fakeOracle{fn: func(int, string) (string, error) {
		return `{"found": false, "end_line_index": 0, "data": []}`, nil
	}}

	got := NewExtractor(oracle).ExtractSection(context.Background(), lines, section, "t.md")

	if len(got) != 0 {
		t.Errorf("expected no items, got %v", got)
	}
	if oracle.calls != len(lines) {
		t.Errorf("found=false must advance exactly one line; calls = %d, want %d", oracle.calls, len(lines))
	}
}

// Even when the oracle fails every attempt of every window, the loop
// terminates after at most one window per section line.
func TestExtractSectionTerminatesUnderTotalFailure(t *testing.T) {
	lines := []string{"1. q", "2. q", "3. q", "4. q"}
	section := model.Section{Type: model.SectionShortAnswer, StartLine: 0, EndLine: 3}
	oracle := failingOracle()

	got := NewExtractor(oracle).ExtractSection(context.Background(), lines, section, "t.md")

	if len(got) != 0 {
		t.Errorf("expected no items, got %v", got)
	}
	// 4 windows, 3 gateway attempts each.
	if oracle.calls != 12 {
		t.Errorf("calls = %d, want 12", oracle.calls)
	}
}

func TestExtractSectionSubsliceIsWindowRelative(t *testing.T) {
	lines := []string{"heading", "skip me", "1. real question", "A. option"}
	section := model.Section{Type: model.SectionChoice, StartLine: 2, EndLine: 3}
	oracle := &fakeOracle{fn: func(int, string) (string, error) {
		return `{"found": true, "end_line_index": 1, "data": [{"question": "real question"}]}`, nil
	}}

	NewExtractor(oracle).ExtractSection(context.Background(), lines, section, "t.md")

	prompt := oracle.prompts[0]
	if !strings.Contains(prompt, "[L0] 1. real question") {
		t.Errorf("window should start at the section's first line:\n%s", prompt)
	}
	if strings.Contains(prompt, "heading") {
		t.Errorf("window should not include lines before the section:\n%s", prompt)
	}
}
