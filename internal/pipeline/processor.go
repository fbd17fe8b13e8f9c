package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/AiursoftWeb/QuestionsAgent/internal/llm"
	"github.com/AiursoftWeb/QuestionsAgent/internal/model"
	"github.com/AiursoftWeb/QuestionsAgent/internal/store"
)

// answerContextLength is how many trailing characters of a paper are
// handed to the matcher as the answer-key excerpt.
const answerContextLength = 3000

// sourceHeaderRe marks the start of a paper inside the input blob. A
// full-width colon is accepted since source documents are frequently
// Chinese.
var sourceHeaderRe = regexp.MustCompile(`(?m)^# SRC[:：](.*)$`)

// Processor drives the whole pipeline: paper splitting, normalization,
// segmentation, extraction, answer matching and persistence, strictly
// in document order.
type Processor struct {
	splitter  *Splitter
	extractor *Extractor
	matcher   *Matcher
	ledger    *store.Store
}

// NewProcessor wires the pipeline stages around one oracle. ledger may
// be nil, in which case no run bookkeeping is recorded.
func NewProcessor(oracle llm.Completer, ledger *store.Store) *Processor {
	return &Processor{
		splitter:  NewSplitter(oracle),
		extractor: NewExtractor(oracle),
		matcher:   NewMatcher(oracle),
		ledger:    ledger,
	}
}

// Run processes every paper found in inputFile and persists the results
// under outputDir. A missing input file is reported and ends the run
// cleanly; oracle failures are contained per stage and never abort the
// run.
func (p *Processor) Run(ctx context.Context, inputFile, outputDir string) error {
	slog.Info("starting ETL pipeline", "input", inputFile)

	raw, err := os.ReadFile(inputFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Error("input file not found", "path", inputFile)
			return nil
		}
		return fmt.Errorf("read input: %w", err)
	}

	papers := SplitPapers(string(raw))
	slog.Info("identified papers", "count", len(papers))

	var runID int64
	if p.ledger != nil {
		runID, err = p.ledger.BeginRun(inputFile, outputDir)
		if err != nil {
			slog.Warn("run ledger unavailable", "error", err)
			runID = 0
		}
	}

	total := 0
	for _, paper := range papers {
		slog.Info("processing paper", "file", paper.FileName)

		lines := NormalizeText(paper.Content)
		if len(lines) == 0 {
			continue
		}

		sections := p.splitter.AnalyzeSections(ctx, lines)

		var fileQuestions []model.QuestionItem
		for _, section := range sections {
			fileQuestions = append(fileQuestions, p.extractor.ExtractSection(ctx, lines, section, paper.FileName)...)
		}
		slog.Info("extracted questions", "count", len(fileQuestions), "file", paper.FileName)

		if runID != 0 {
			if err := p.ledger.RecordDocument(runID, paper.FileName, len(lines), len(sections), len(fileQuestions)); err != nil {
				slog.Warn("failed to record document in ledger", "file", paper.FileName, "error", err)
			}
		}

		if len(fileQuestions) == 0 {
			continue
		}

		p.matcher.FillAnswers(ctx, fileQuestions, tailExcerpt(paper.Content, answerContextLength))

		if err := SaveQuestions(fileQuestions, outputDir); err != nil {
			return err
		}
		total += len(fileQuestions)
	}

	if runID != 0 {
		if err := p.ledger.FinishRun(runID, total); err != nil {
			slog.Warn("failed to finish run in ledger", "error", err)
		}
	}

	slog.Info("ETL process completed", "total_questions", total)
	return nil
}

// SplitPapers splits a raw input blob into papers on "# SRC:" header
// lines. The header stays part of its paper's content. Content before
// the first header, or a header with no name, is labeled "Unknown".
func SplitPapers(raw string) []model.Paper {
	locs := sourceHeaderRe.FindAllStringSubmatchIndex(raw, -1)
	if len(locs) == 0 {
		if strings.TrimSpace(raw) == "" {
			return nil
		}
		return []model.Paper{{FileName: "Unknown", Content: raw}}
	}

	var papers []model.Paper
	if head := raw[:locs[0][0]]; strings.TrimSpace(head) != "" {
		papers = append(papers, model.Paper{FileName: "Unknown", Content: head})
	}
	for i, loc := range locs {
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		name := strings.TrimSpace(raw[loc[2]:loc[3]])
		if name == "" {
			name = "Unknown"
		}
		papers = append(papers, model.Paper{FileName: name, Content: raw[loc[0]:end]})
	}
	return papers
}

// tailExcerpt returns the last n runes of s. Rune-based so multi-byte
// content is never cut mid-character.
func tailExcerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
