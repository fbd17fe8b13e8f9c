package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AiursoftWeb/QuestionsAgent/internal/llm"
	"github.com/AiursoftWeb/QuestionsAgent/internal/llm/prompts"
	"github.com/AiursoftWeb/QuestionsAgent/internal/model"
)

// Matcher resolves answers and explanations for extracted questions from
// a document's trailing answer-key excerpt.
type Matcher struct {
	oracle llm.Completer
}

func NewMatcher(oracle llm.Completer) *Matcher {
	return &Matcher{oracle: oracle}
}

// FillAnswers mutates questions in place, one oracle call per item. A
// null oracle response leaves model.DefaultAnswer; a failed call sets
// model.ErrorAnswer. Neither outcome aborts the batch.
func (m *Matcher) FillAnswers(ctx context.Context, questions []model.QuestionItem, answerKey string) {
	slog.Info("matching answers", "count", len(questions))

	for i := range questions {
		q := &questions[i]
		slog.Info("matching question",
			"progress", fmt.Sprintf("%d/%d", i+1, len(questions)),
			"question", clip(q.Question, 50))

		prompt := prompts.BuildMatchPrompt(*q, answerKey)
		result, err := llm.CallJSON[model.AnswerResult](ctx, m.oracle, prompt)
		if err != nil {
			slog.Error("answer matching failed", "question", clip(q.Question, 50), "error", err)
			q.Answer = model.ErrorAnswer
			continue
		}
		if result == nil {
			slog.Warn("no answer found", "question", clip(q.Question, 50))
			q.Answer = model.DefaultAnswer
			continue
		}

		q.Answer = result.Answer
		q.Analysis = result.Analysis
		slog.Info("matched answer", "answer", q.Answer)
	}
}
