// Package prompts builds the oracle prompts used by the extraction
// pipeline. All prompt text lives here so the pipeline stages stay free
// of string templates.
package prompts

import (
	"fmt"
	"strings"

	"github.com/AiursoftWeb/QuestionsAgent/internal/model"
)

// RenderNumberedLines renders lines with positional [L<i>] prefixes, the
// coordinate system every prompt shares with the oracle. Indexes are
// relative to the slice passed in.
func RenderNumberedLines(lines []string) string {
	var sb strings.Builder
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fmt.Fprintf(&sb, "[L%d] %s\n", i, line)
	}
	return sb.String()
}

// BuildSegmentPrompt asks the oracle to partition a whole document into
// labeled sections. This is the only prompt that carries the full
// document at once.
func BuildSegmentPrompt(lines []string) string {
	var sb strings.Builder
	sb.WriteString("You are a document structure analyst. Read the DOCUMENT below (each line is numbered [Lx]).\n")
	sb.WriteString("Your task: partition the document into regions by question type.\n\n")
	sb.WriteString("Identify every question-type region present (multiple choice, fill in the blank, true/false, short answer, term definition, matching, answer key, ...) and report its start and end line numbers.\n\n")
	sb.WriteString("DOCUMENT:\n")
	sb.WriteString("----------------\n")
	sb.WriteString(RenderNumberedLines(lines))
	sb.WriteString("----------------\n\n")
	sb.WriteString("Return a JSON array in this exact format:\n")
	sb.WriteString("[\n")
	sb.WriteString(`    { "type": "choice", "start_line": 0, "end_line": 40 },` + "\n")
	sb.WriteString(`    { "type": "term-definition", "start_line": 41, "end_line": 60 },` + "\n")
	sb.WriteString(`    { "type": "short-answer", "start_line": 61, "end_line": 100 }` + "\n")
	sb.WriteString("]\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("1. start_line and end_line must cover every question of the region, including its heading line.\n")
	sb.WriteString(`2. If an answer area is interleaved, put it in its own "answer-key" region or fold it into the preceding region.` + "\n")
	sb.WriteString("3. Do not leave any part of the document uncovered.\n")
	sb.WriteString(`4. type must be one of: ` + allowedTypeList() + ".\n")
	return sb.String()
}

// BuildExtractPrompt asks the oracle to pull structured items out of one
// sliding window. In single-item mode exactly the first complete item
// starting at [L0] is requested; otherwise every item starting
// contiguously at [L0].
func BuildExtractPrompt(windowLines []string, sectionType model.SectionType, singleItem bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a formatting specialist. Current task: extract %s questions.\n\n", sectionType)
	sb.WriteString("TEXT FRAGMENT:\n")
	sb.WriteString("----------------\n")
	sb.WriteString(RenderNumberedLines(windowLines))
	sb.WriteString("----------------\n\n")
	if singleItem {
		fmt.Fprintf(&sb, "Starting at [L0], extract the FIRST complete %s question.\n\n", sectionType)
	} else {
		fmt.Fprintf(&sb, "Starting at [L0], extract ALL contiguous %s questions (there may be several, e.g. 1. xx 2. xx).\n\n", sectionType)
	}
	sb.WriteString("Return JSON in this format:\n")
	sb.WriteString("{\n")
	sb.WriteString(`    "found": true,` + "\n")
	sb.WriteString(`    "data": [` + "\n")
	fmt.Fprintf(&sb, `        { "type": %q, "question": "the question text", "options": [] }`+"\n", sectionType)
	sb.WriteString("    ],\n")
	sb.WriteString(`    "end_line_index": 0` + "\n")
	sb.WriteString("}\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("1. If [L0] is not a question (blank or unrelated text), return found: false.\n")
	sb.WriteString(`2. Even for term definitions: when one line reads "1. tragedy 2. comedy", return two objects in data.` + "\n")
	sb.WriteString("3. end_line_index must be exact: the window-relative [L?] of the last line these questions occupy.\n")
	return sb.String()
}

// BuildMatchPrompt asks the oracle to resolve one question's answer from
// the document's trailing answer-key excerpt.
func BuildMatchPrompt(item model.QuestionItem, answerKey string) string {
	var sb strings.Builder
	sb.WriteString("You are a grading assistant.\n")
	sb.WriteString("Using the REFERENCE MATERIAL below (usually the answer section at the end of an exam paper), find the correct answer to the TARGET QUESTION.\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("1. Prefer matching by question text against the reference material.\n")
	sb.WriteString(`2. If the reference only contains "1. A, 2. B" style lists, you may infer by question number or order, but semantic matches take priority.` + "\n")
	fmt.Fprintf(&sb, "3. If you cannot find the answer, honestly return %q.\n\n", model.DefaultAnswer)
	sb.WriteString("TARGET QUESTION:\n")
	sb.WriteString("Question: " + item.Question + "\n")
	sb.WriteString("Options: " + strings.Join(item.Options, " ") + "\n")
	sb.WriteString("Type: " + item.Type + "\n\n")
	sb.WriteString("REFERENCE MATERIAL:\n")
	sb.WriteString("----------------\n")
	sb.WriteString(answerKey)
	sb.WriteString("\n----------------\n\n")
	sb.WriteString("Return a single JSON object:\n")
	sb.WriteString(`{ "answer": "the option letter or answer text", "analysis": "a short explanation, if the material has one" }` + "\n")
	return sb.String()
}

func allowedTypeList() string {
	quoted := make([]string, len(model.SectionTypes))
	for i, t := range model.SectionTypes {
		quoted[i] = fmt.Sprintf("%q", string(t))
	}
	return strings.Join(quoted, ", ")
}
