package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/viaconta/nfsync/internal/syncrun"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, run *syncrun.Run) error {
	query := `
		INSERT INTO sync_runs (started_at, finished_at, outcome, notes_found, notes_synced, error_summary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var errorSummary sql.NullString
	if run.ErrorSummary != "" {
		errorSummary = sql.NullString{String: run.ErrorSummary, Valid: true}
	}

	err := s.db.QueryRowContext(ctx, query,
		run.StartedAt,
		run.FinishedAt,
		run.Outcome,
		run.NotesFound,
		run.NotesSynced,
		errorSummary,
	).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("inserting sync run: %w", err)
	}

	return nil
}

func (s *Store) Latest(ctx context.Context) (*syncrun.Run, error) {
	query := `
		SELECT id, started_at, finished_at, outcome, notes_found, notes_synced, error_summary
		FROM sync_runs
		ORDER BY finished_at DESC
		LIMIT 1
	`

	var run syncrun.Run

	var (
		outcomeStr   string
		errorSummary sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query).Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt, &outcomeStr,
		&run.NotesFound, &run.NotesSynced, &errorSummary,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, syncrun.ErrNoRuns
		}

		return nil, fmt.Errorf("loading latest sync run: %w", err)
	}

	run.Outcome = syncrun.Outcome(outcomeStr)
	run.ErrorSummary = errorSummary.String

	return &run, nil
}
