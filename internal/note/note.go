package note

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/viaconta/nfsync/internal/plugnotas"
)

var ErrNotFound = errors.New("note not found")

// SyncStatus tracks whether a note's latest reconciliation write succeeded.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncError   SyncStatus = "error"
)

// Status is the fiscal lifecycle state of the note itself.
type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
)

// Note is one service invoice (NFSe) in the catalog.
//
// ExternalID is the source system's id when known. Rows discovered through
// the document store before the API round-trip succeeds carry a synthetic
// id derived from the natural key until the real one is backfilled.
type Note struct {
	ID            uuid.UUID
	ExternalID    string
	Number        string
	IssuerCNPJ    string
	RecipientCNPJ string
	CompanyID     *uuid.UUID
	Situation     string
	AccessKey     string
	Series        string
	IssueDate     time.Time
	Year          int
	Month         int
	Day           int
	TotalValue    decimal.Decimal
	PDFPath       string
	XMLPath       string
	PDFURL        string
	XMLURL        string
	SyncStatus    SyncStatus
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// fallbackIssueDate is used when the source payload carries no parseable
// emission date, matching what the hosted rows historically defaulted to.
var fallbackIssueDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// FromRaw normalizes a source payload into a catalog note. recipientCNPJ is
// the tenant the period query was issued for.
func FromRaw(raw *plugnotas.RawNote, recipientCNPJ string) *Note {
	issued, err := raw.IssueDate()
	if err != nil {
		issued = fallbackIssueDate
	}

	status := StatusActive
	if isCanceled(raw.Situation) {
		status = StatusCanceled
	}

	return &Note{
		ExternalID:    raw.ID,
		Number:        raw.DocumentNumber(),
		IssuerCNPJ:    FormatCNPJ(raw.IssuerTaxID()),
		RecipientCNPJ: FormatCNPJ(recipientCNPJ),
		Situation:     raw.Situation,
		AccessKey:     raw.AccessKey,
		Series:        raw.Series,
		IssueDate:     issued,
		Year:          issued.Year(),
		Month:         int(issued.Month()),
		Day:           issued.Day(),
		TotalValue:    ExtractTotal(raw),
		SyncStatus:    SyncPending,
		Status:        status,
	}
}

func isCanceled(situation string) bool {
	switch situation {
	case "CANCELADO", "CANCELADA", "cancelado", "cancelada":
		return true
	}

	return false
}
