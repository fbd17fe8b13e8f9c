package parser

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// WriteBundle converts each source file and concatenates the results
// into one markdown blob, each document preceded by the "# SRC: <name>"
// header line the processing pipeline splits papers on.
func WriteBundle(w io.Writer, paths []string) error {
	for _, path := range paths {
		p, err := ForFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		name := filepath.Base(path)
		text, err := p.Parse(f, name)
		f.Close()
		if err != nil {
			return fmt.Errorf("convert %s: %w", path, err)
		}

		if _, err := fmt.Fprintf(w, "# SRC: %s\n\n%s\n\n", name, text); err != nil {
			return fmt.Errorf("write bundle: %w", err)
		}
		slog.Info("converted document", "file", name, "chars", len(text))
	}
	return nil
}
