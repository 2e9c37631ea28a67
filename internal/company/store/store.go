package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/viaconta/nfsync/internal/company"
	"github.com/viaconta/nfsync/internal/note"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectCompanyColumns = `id, name, cnpj, active, last_sync_at, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanCompany(s scanner) (*company.Company, error) {
	var c company.Company

	var name sql.NullString

	if err := s.Scan(&c.ID, &name, &c.CNPJ, &c.Active, &c.LastSyncAt, &c.CreatedAt); err != nil {
		return nil, err
	}

	c.Name = name.String

	return &c, nil
}

func (s *Store) ListActive(ctx context.Context) ([]*company.Company, error) {
	query := `SELECT ` + selectCompanyColumns + ` FROM companies WHERE active = TRUE ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing active companies: %w", err)
	}
	defer rows.Close()

	var companies []*company.Company

	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}

		companies = append(companies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating company rows: %w", err)
	}

	return companies, nil
}

func (s *Store) FindByCNPJ(ctx context.Context, cnpj string) (*company.Company, error) {
	// Rows hold the CNPJ formatted or bare depending on which producer
	// created them; match both forms.
	query := `SELECT ` + selectCompanyColumns + `
		FROM companies
		WHERE cnpj = $1 OR cnpj = $2
		LIMIT 1`

	c, err := scanCompany(s.db.QueryRowContext(ctx, query, note.FormatCNPJ(cnpj), note.CNPJDigits(cnpj)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, company.ErrNotFound
		}

		return nil, fmt.Errorf("finding company by cnpj: %w", err)
	}

	return c, nil
}

func (s *Store) TouchLastSync(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE companies SET last_sync_at = $1 WHERE id = $2`

	if _, err := s.db.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("touching company last sync: %w", err)
	}

	return nil
}
