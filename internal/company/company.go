package company

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("company not found")

// Company is a tenant that receives service invoices. Lifecycle is managed
// by the admin surface; reconciliation only reads it and touches last_sync_at.
type Company struct {
	ID         uuid.UUID
	Name       string
	CNPJ       string
	Active     bool
	LastSyncAt *time.Time
	CreatedAt  time.Time
}

//go:generate mockgen -source=company.go -destination=repository_mock.go -package=company
type Repository interface {
	ListActive(ctx context.Context) ([]*Company, error)
	FindByCNPJ(ctx context.Context, cnpj string) (*Company, error)
	TouchLastSync(ctx context.Context, id uuid.UUID, at time.Time) error
}
