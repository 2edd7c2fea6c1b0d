// Package history keeps a local SQLite log of CLI classifier runs.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JaimeStill/warden/risk"
)

// DefaultLimit is the number of runs List returns when limit is not positive.
const DefaultLimit = 20

// ErrEmptySource indicates a run was saved without naming its input.
var ErrEmptySource = errors.New("history source must not be empty")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	source        TEXT    NOT NULL,
	name          TEXT    NOT NULL,
	tier          TEXT    NOT NULL,
	score         INTEGER NOT NULL,
	needs_review  INTEGER NOT NULL DEFAULT 0,
	rules_version TEXT    NOT NULL,
	result        TEXT    NOT NULL,
	created_at    TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Run is one saved classifier invocation.
type Run struct {
	ID           int64       `json:"id"`
	Source       string      `json:"source"`
	Name         string      `json:"name"`
	Tier         risk.Tier   `json:"tier"`
	Score        int         `json:"score"`
	NeedsReview  bool        `json:"needs_review"`
	RulesVersion string      `json:"rules_version"`
	Result       risk.Result `json:"result"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Store is a SQLite-backed run log. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// a single connection serializes writers and keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure history: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save records a classifier run for the profile loaded from source.
func (s *Store) Save(ctx context.Context, source string, p risk.Profile, r risk.Result) (*Run, error) {
	if source == "" {
		return nil, ErrEmptySource
	}

	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	run := Run{
		Source:       source,
		Name:         p.Name,
		Tier:         r.Tier,
		Score:        r.Score,
		NeedsReview:  r.NeedsReview(),
		RulesVersion: r.RulesVersion,
		Result:       r,
		CreatedAt:    time.Now().UTC(),
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (source, name, tier, score, needs_review, rules_version, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Source, run.Name, string(run.Tier), run.Score, run.NeedsReview,
		run.RulesVersion, string(data), run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	if run.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &run, nil
}

// List returns up to limit runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit < 1 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, name, tier, score, needs_review, rules_version, result, created_at
		FROM runs
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run       Run
		tier      string
		result    string
		createdAt string
	)

	if err := rows.Scan(
		&run.ID, &run.Source, &run.Name, &tier, &run.Score,
		&run.NeedsReview, &run.RulesVersion, &result, &createdAt,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	run.Tier = risk.Tier(tier)

	if err := json.Unmarshal([]byte(result), &run.Result); err != nil {
		return Run{}, fmt.Errorf("decode run %d: %w", run.ID, err)
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("decode run %d: %w", run.ID, err)
	}
	run.CreatedAt = ts

	return run, nil
}
