package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/viaconta/nfsync/internal/note"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Store struct {
	db *sql.DB
	q  querier
}

func New(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectNoteColumns = `
	id, nota_id, numero_nfse, cnpj_prestador, cnpj_tomador, company_id,
	situacao, chave_acesso_nfse, serie, data_emissao, ano, mes, dia, valor_total,
	s3_path_pdf, s3_path_xml, download_url_pdf, download_url_xml,
	sync_status, status, created_at, updated_at
`

// scanNote reads a note row in selectNoteColumns order.
func scanNote(s scanner) (*note.Note, error) {
	var n note.Note

	var (
		companyID                    *uuid.UUID
		situation, accessKey, series sql.NullString
		pdfPath, xmlPath             sql.NullString
		pdfURL, xmlURL               sql.NullString
		totalValue                   decimal.NullDecimal
		syncStatusStr, statusStr     string
	)

	if err := s.Scan(
		&n.ID, &n.ExternalID, &n.Number, &n.IssuerCNPJ, &n.RecipientCNPJ, &companyID,
		&situation, &accessKey, &series, &n.IssueDate, &n.Year, &n.Month, &n.Day, &totalValue,
		&pdfPath, &xmlPath, &pdfURL, &xmlURL,
		&syncStatusStr, &statusStr, &n.CreatedAt, &n.UpdatedAt,
	); err != nil {
		return nil, err
	}

	n.CompanyID = companyID
	n.Situation = situation.String
	n.AccessKey = accessKey.String
	n.Series = series.String
	n.TotalValue = totalValue.Decimal
	n.PDFPath = pdfPath.String
	n.XMLPath = xmlPath.String
	n.PDFURL = pdfURL.String
	n.XMLURL = xmlURL.String
	n.SyncStatus = note.SyncStatus(syncStatusStr)
	n.Status = note.Status(statusStr)

	return &n, nil
}

// nullable maps empty strings to NULL so a missing attachment ref is stored
// as an absent value, not an empty one.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func keyLock(number, issuerCNPJ string) int64 {
	h := fnv.New64a()
	h.Write([]byte(number))
	h.Write([]byte{0})
	h.Write([]byte(note.CNPJDigits(issuerCNPJ)))

	return int64(h.Sum64())
}

// WithKeyLock runs fn inside a transaction holding an advisory lock derived
// from the natural key, serializing concurrent find-or-create attempts for
// the same invoice.
func (s *Store) WithKeyLock(ctx context.Context, number, issuerCNPJ string, fn func(note.Repository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning upsert tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", keyLock(number, issuerCNPJ)); err != nil {
		return fmt.Errorf("acquiring note key lock: %w", err)
	}

	if err := fn(&Store{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert tx: %w", err)
	}

	return nil
}

func (s *Store) FindByExternalID(ctx context.Context, externalID string) (*note.Note, error) {
	query := `SELECT ` + selectNoteColumns + ` FROM service_notes WHERE nota_id = $1`

	n, err := scanNote(s.q.QueryRowContext(ctx, query, externalID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, note.ErrNotFound
		}

		return nil, fmt.Errorf("finding note by external id: %w", err)
	}

	return n, nil
}

func (s *Store) FindByNaturalKey(ctx context.Context, number, issuerCNPJ string) (*note.Note, error) {
	// The issuer CNPJ was written formatted by some producers and bare by
	// others; match either form.
	query := `SELECT ` + selectNoteColumns + `
		FROM service_notes
		WHERE numero_nfse = $1 AND (cnpj_prestador = $2 OR cnpj_prestador = $3)
		LIMIT 1`

	n, err := scanNote(s.q.QueryRowContext(ctx, query, number, note.FormatCNPJ(issuerCNPJ), note.CNPJDigits(issuerCNPJ)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, note.ErrNotFound
		}

		return nil, fmt.Errorf("finding note by natural key: %w", err)
	}

	return n, nil
}

func (s *Store) Insert(ctx context.Context, n *note.Note) error {
	query := `
		INSERT INTO service_notes (
			nota_id, numero_nfse, cnpj_prestador, cnpj_tomador, company_id,
			situacao, chave_acesso_nfse, serie, data_emissao, ano, mes, dia, valor_total,
			s3_path_pdf, s3_path_xml, download_url_pdf, download_url_xml,
			sync_status, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.q.QueryRowContext(ctx, query,
		n.ExternalID, n.Number, n.IssuerCNPJ, n.RecipientCNPJ, n.CompanyID,
		nullable(n.Situation), nullable(n.AccessKey), nullable(n.Series),
		n.IssueDate, n.Year, n.Month, n.Day, n.TotalValue,
		nullable(n.PDFPath), nullable(n.XMLPath), nullable(n.PDFURL), nullable(n.XMLURL),
		n.SyncStatus, n.Status,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting note: %w", err)
	}

	return nil
}

func (s *Store) Update(ctx context.Context, n *note.Note) error {
	query := `
		UPDATE service_notes
		SET nota_id = $1, numero_nfse = $2, cnpj_prestador = $3, cnpj_tomador = $4, company_id = $5,
			situacao = $6, chave_acesso_nfse = $7, serie = $8,
			data_emissao = $9, ano = $10, mes = $11, dia = $12, valor_total = $13,
			s3_path_pdf = $14, s3_path_xml = $15, download_url_pdf = $16, download_url_xml = $17,
			sync_status = $18, status = $19, updated_at = NOW()
		WHERE id = $20
	`

	_, err := s.q.ExecContext(ctx, query,
		n.ExternalID, n.Number, n.IssuerCNPJ, n.RecipientCNPJ, n.CompanyID,
		nullable(n.Situation), nullable(n.AccessKey), nullable(n.Series),
		n.IssueDate, n.Year, n.Month, n.Day, n.TotalValue,
		nullable(n.PDFPath), nullable(n.XMLPath), nullable(n.PDFURL), nullable(n.XMLURL),
		n.SyncStatus, n.Status,
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating note: %w", err)
	}

	return nil
}

func (s *Store) ListNotes(ctx context.Context, filter note.ListFilter) ([]*note.Note, error) {
	query := `SELECT ` + selectNoteColumns + ` FROM service_notes WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.CompanyID != nil {
		query += fmt.Sprintf(" AND company_id = $%d", argIdx)

		args = append(args, *filter.CompanyID)
		argIdx++
	}

	if filter.Year != nil {
		query += fmt.Sprintf(" AND ano = $%d", argIdx)

		args = append(args, *filter.Year)
		argIdx++
	}

	if filter.Month != nil {
		query += fmt.Sprintf(" AND mes = $%d", argIdx)

		args = append(args, *filter.Month)
		argIdx++
	}

	query += " ORDER BY data_emissao DESC, numero_nfse DESC"

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	var notes []*note.Note

	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}

		notes = append(notes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating note rows: %w", err)
	}

	return notes, nil
}
