package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/AiursoftWeb/QuestionsAgent/internal/model"
)

// SaveQuestions groups items by type and appends each group to a
// "<type>.json" file under outputDir. An existing file is merged
// additively; if it cannot be parsed its contents are discarded so a
// corrupt prior state never loses the new batch. No deduplication is
// performed: running the same input twice doubles the stored counts.
func SaveQuestions(items []model.QuestionItem, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, group := range groupByType(items) {
		fileName := strings.ReplaceAll(group.Type, "/", "_") + ".json"
		path := filepath.Join(outputDir, fileName)

		var existing []model.QuestionItem
		if data, err := os.ReadFile(path); err == nil && len(bytes.TrimSpace(data)) > 0 {
			if err := json.Unmarshal(data, &existing); err != nil {
				slog.Warn("failed to read existing file, starting fresh", "path", path, "error", err)
				existing = nil
			}
		}

		merged := append(existing, group.Items...)

		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(merged); err != nil {
			return fmt.Errorf("encode %s: %w", fileName, err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		slog.Info("saved questions", "count", len(group.Items), "path", path)
	}
	return nil
}

type typeGroup struct {
	Type  string
	Items []model.QuestionItem
}

// groupByType partitions items by type, preserving first-appearance
// order of the groups and document order within each group.
func groupByType(items []model.QuestionItem) []typeGroup {
	index := make(map[string]int)
	var groups []typeGroup
	for _, item := range items {
		i, ok := index[item.Type]
		if !ok {
			i = len(groups)
			index[item.Type] = i
			groups = append(groups, typeGroup{Type: item.Type})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}
