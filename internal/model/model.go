package model

// SectionType labels a contiguous region of an exam document by the kind
// of questions it contains.
type SectionType string

const (
	// SectionChoice is a multiple-choice question region.
	SectionChoice SectionType = "choice"
	// SectionFillBlank is a fill-in-the-blank question region.
	SectionFillBlank SectionType = "fill-blank"
	// SectionTrueFalse is a true/false question region.
	SectionTrueFalse SectionType = "true-false"
	// SectionShortAnswer is a short-answer question region.
	SectionShortAnswer SectionType = "short-answer"
	// SectionTermDefinition is a term-definition question region.
	SectionTermDefinition SectionType = "term-definition"
	// SectionMatching is a matching question region (not extractable).
	SectionMatching SectionType = "matching"
	// SectionAnswerKey is an answer-key region, consumed by the matcher
	// and never extracted from directly.
	SectionAnswerKey SectionType = "answer-key"
	// SectionUnknown labels content the segmenter could not classify.
	SectionUnknown SectionType = "unknown"
)

// SectionTypes is the closed set of labels the segmenter may assign.
var SectionTypes = []SectionType{
	SectionChoice,
	SectionFillBlank,
	SectionTrueFalse,
	SectionShortAnswer,
	SectionTermDefinition,
	SectionMatching,
	SectionAnswerKey,
	SectionUnknown,
}

const (
	// DefaultAnswer marks a question whose answer has not been resolved.
	DefaultAnswer = "unknown"
	// ErrorAnswer marks a question whose answer matching failed outright.
	// Kept textually distinct from DefaultAnswer so the two outcomes stay
	// distinguishable in the output files.
	ErrorAnswer = "Error"
)

// QuestionItem is one extracted question. Type, Question and Options are
// populated by the extractor; Answer and Analysis by the matcher.
type QuestionItem struct {
	Type             string   `json:"type"`
	Question         string   `json:"question"`
	Options          []string `json:"options"`
	Answer           string   `json:"answer"`
	Analysis         string   `json:"analysis"`
	OriginalFilename string   `json:"originalFilename"`
}

// NewQuestionItem returns a QuestionItem with the documented defaults.
func NewQuestionItem() QuestionItem {
	return QuestionItem{
		Type:    string(SectionChoice),
		Options: []string{},
		Answer:  DefaultAnswer,
	}
}

// Paper is one logical source document found inside a larger input blob.
// Immutable after the orchestrator's split step.
type Paper struct {
	FileName string
	Content  string
}

// Section is a labeled region of a normalized line sequence. StartLine
// and EndLine are inclusive 0-based indexes into the line sequence and
// are clamped into range by the segmenter before use.
type Section struct {
	Type      SectionType `json:"type"`
	StartLine int         `json:"start_line"`
	EndLine   int         `json:"end_line"`
}

// ExtractionResult is the oracle's response shape for one extraction
// window. EndLineIndex is relative to the window, not the section.
type ExtractionResult struct {
	Found        bool           `json:"found"`
	EndLineIndex int            `json:"end_line_index"`
	Data         []QuestionItem `json:"data"`
}

// AnswerResult is the oracle's response shape for one answer-matching
// call.
type AnswerResult struct {
	Answer   string `json:"answer"`
	Analysis string `json:"analysis"`
}
