package syncrun

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoRuns is returned by Latest when the ledger is empty. Consumers treat
// it as "never synced", not as a failure.
var ErrNoRuns = errors.New("no sync runs recorded")

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
)

// Run is one reconciliation execution. Rows are append-only: a run is
// persisted exactly once, at finalization, and never mutated afterwards.
type Run struct {
	ID           uuid.UUID
	StartedAt    time.Time
	FinishedAt   time.Time
	Outcome      Outcome
	NotesFound   int
	NotesSynced  int
	ErrorSummary string
}

//go:generate mockgen -source=syncrun.go -destination=repository_mock.go -package=syncrun
type Repository interface {
	Insert(ctx context.Context, run *Run) error
	Latest(ctx context.Context) (*Run, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends one finalized run to the ledger.
func (s *Service) Record(ctx context.Context, run *Run) error {
	return s.repo.Insert(ctx, run)
}

// Latest returns the most recent run, or ErrNoRuns.
func (s *Service) Latest(ctx context.Context) (*Run, error) {
	return s.repo.Latest(ctx)
}
