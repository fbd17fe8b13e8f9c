// Package store keeps a sqlite ledger of pipeline runs: when they ran,
// over which input, and how many items each document yielded. The JSON
// group files remain the output contract; the ledger is bookkeeping.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Run is one pipeline invocation.
type Run struct {
	ID          int64
	InputFile   string
	OutputDir   string
	StartedAt   time.Time
	CompletedAt sql.NullTime
	TotalItems  int
}

// RunDocument is the per-paper outcome within a run.
type RunDocument struct {
	ID       int64
	RunID    int64
	FileName string
	Lines    int
	Sections int
	Items    int
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		input_file TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		completed_at DATETIME,
		total_items INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS run_documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		file_name TEXT NOT NULL,
		lines INTEGER NOT NULL DEFAULT 0,
		sections INTEGER NOT NULL DEFAULT 0,
		items INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// BeginRun records the start of a pipeline run.
func (s *Store) BeginRun(inputFile, outputDir string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (input_file, output_dir, started_at) VALUES (?, ?, ?)`,
		inputFile, outputDir, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FinishRun marks a run complete with its total item count.
func (s *Store) FinishRun(id int64, totalItems int) error {
	_, err := s.db.Exec(
		`UPDATE runs SET completed_at = ?, total_items = ? WHERE id = ?`,
		time.Now(), totalItems, id,
	)
	return err
}

// RecordDocument stores one paper's outcome within a run.
func (s *Store) RecordDocument(runID int64, fileName string, lines, sections, items int) error {
	_, err := s.db.Exec(
		`INSERT INTO run_documents (run_id, file_name, lines, sections, items) VALUES (?, ?, ?, ?, ?)`,
		runID, fileName, lines, sections, items,
	)
	return err
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, input_file, output_dir, started_at, completed_at, total_items
		 FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.InputFile, &r.OutputDir, &r.StartedAt, &r.CompletedAt, &r.TotalItems); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListRunDocuments returns the per-document outcomes of one run.
func (s *Store) ListRunDocuments(runID int64) ([]RunDocument, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, file_name, lines, sections, items
		 FROM run_documents WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []RunDocument
	for rows.Next() {
		var d RunDocument
		if err := rows.Scan(&d.ID, &d.RunID, &d.FileName, &d.Lines, &d.Sections, &d.Items); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
