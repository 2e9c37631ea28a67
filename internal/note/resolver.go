package note

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=resolver.go -destination=repository_mock.go -package=note
type Repository interface {
	// WithKeyLock runs fn while holding a per-natural-key lock, so two
	// workers observing the same invoice cannot race the find-or-create.
	WithKeyLock(ctx context.Context, number, issuerCNPJ string, fn func(Repository) error) error

	FindByExternalID(ctx context.Context, externalID string) (*Note, error)
	FindByNaturalKey(ctx context.Context, number, issuerCNPJ string) (*Note, error)
	Insert(ctx context.Context, n *Note) error
	Update(ctx context.Context, n *Note) error

	ListNotes(ctx context.Context, filter ListFilter) ([]*Note, error)
}

type ListFilter struct {
	CompanyID *uuid.UUID
	Year      *int
	Month     *int
}

// SyntheticID builds the stand-in external id used when the source id is
// not yet known. Its shape (number_issuerdigits) marks the row as healable.
func SyntheticID(number, issuerCNPJ string) string {
	return number + "_" + CNPJDigits(issuerCNPJ)
}

// IsSyntheticID reports whether an external id was synthesized from the
// natural key rather than assigned by the source system.
func IsSyntheticID(id string) bool {
	return strings.Contains(id, "_")
}

// Resolver maps an incoming note onto exactly one catalog row.
//
// Precedence: a real source id wins; otherwise the natural key
// (numero_nfse, cnpj_prestador) decides, healing rows created before the
// authoritative id was available.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Upsert writes n into the catalog, updating the matching row or inserting
// a new one. It reports whether a new row was created. n is normalized in
// place with the persisted identity (row id, final external id).
func (r *Resolver) Upsert(ctx context.Context, n *Note) (bool, error) {
	n.IssuerCNPJ = FormatCNPJ(n.IssuerCNPJ)
	n.RecipientCNPJ = FormatCNPJ(n.RecipientCNPJ)

	var created bool

	err := r.repo.WithKeyLock(ctx, n.Number, n.IssuerCNPJ, func(repo Repository) error {
		var err error

		created, err = r.resolve(ctx, repo, n)

		return err
	})
	if err != nil {
		return false, err
	}

	return created, nil
}

// FindByNaturalKey reads the catalog row for (number, issuer), if any.
// The issuer may be passed as bare digits.
func (r *Resolver) FindByNaturalKey(ctx context.Context, number, issuerCNPJ string) (*Note, error) {
	return r.repo.FindByNaturalKey(ctx, number, FormatCNPJ(issuerCNPJ))
}

func (r *Resolver) resolve(ctx context.Context, repo Repository, n *Note) (bool, error) {
	// Strongest match: the source's own id.
	if n.ExternalID != "" && !IsSyntheticID(n.ExternalID) {
		existing, err := repo.FindByExternalID(ctx, n.ExternalID)
		if err == nil {
			merge(existing, n)

			return false, repo.Update(ctx, n)
		}

		if !errors.Is(err, ErrNotFound) {
			return false, fmt.Errorf("finding note by external id: %w", err)
		}
	}

	existing, err := repo.FindByNaturalKey(ctx, n.Number, n.IssuerCNPJ)
	if err == nil {
		merge(existing, n)

		return false, repo.Update(ctx, n)
	}

	if !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("finding note by natural key: %w", err)
	}

	if n.ExternalID == "" {
		n.ExternalID = SyntheticID(n.Number, n.IssuerCNPJ)
	}

	if err := repo.Insert(ctx, n); err != nil {
		return false, fmt.Errorf("inserting note: %w", err)
	}

	return true, nil
}

// merge carries the existing row's identity into the incoming note and
// keeps previously persisted data that the incoming observation lacks:
// attachment refs are never erased by a partial sync, a known total never
// regresses to zero, and a real external id is never replaced by a
// synthetic one.
func merge(existing, incoming *Note) {
	incoming.ID = existing.ID
	incoming.CreatedAt = existing.CreatedAt

	switch {
	case incoming.ExternalID == "":
		incoming.ExternalID = existing.ExternalID
	case IsSyntheticID(incoming.ExternalID) && existing.ExternalID != "" && !IsSyntheticID(existing.ExternalID):
		incoming.ExternalID = existing.ExternalID
	}

	if incoming.ExternalID == "" {
		incoming.ExternalID = SyntheticID(incoming.Number, incoming.IssuerCNPJ)
	}

	if incoming.CompanyID == nil {
		incoming.CompanyID = existing.CompanyID
	}

	if incoming.TotalValue.IsZero() {
		incoming.TotalValue = existing.TotalValue
	}

	if incoming.PDFPath == "" {
		incoming.PDFPath = existing.PDFPath
	}

	if incoming.XMLPath == "" {
		incoming.XMLPath = existing.XMLPath
	}

	if incoming.PDFURL == "" {
		incoming.PDFURL = existing.PDFURL
	}

	if incoming.XMLURL == "" {
		incoming.XMLURL = existing.XMLURL
	}
}

// Service exposes the read path over the catalog for the dashboard surface.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Note, error) {
	return s.repo.ListNotes(ctx, filter)
}
