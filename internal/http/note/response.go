package note

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/viaconta/nfsync/internal/note"
)

type noteResponse struct {
	ID            uuid.UUID       `json:"id"`
	ExternalID    string          `json:"nota_id"`
	Number        string          `json:"numero_nfse"`
	IssuerCNPJ    string          `json:"cnpj_prestador"`
	RecipientCNPJ string          `json:"cnpj_tomador,omitempty"`
	CompanyID     *uuid.UUID      `json:"company_id,omitempty"`
	IssueDate     time.Time       `json:"data_emissao"`
	TotalValue    decimal.Decimal `json:"valor_total"`
	PDFURL        string          `json:"download_url_pdf,omitempty"`
	XMLURL        string          `json:"download_url_xml,omitempty"`
	SyncStatus    note.SyncStatus `json:"sync_status"`
	Status        note.Status     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(n *note.Note) noteResponse {
	return noteResponse{
		ID:            n.ID,
		ExternalID:    n.ExternalID,
		Number:        n.Number,
		IssuerCNPJ:    n.IssuerCNPJ,
		RecipientCNPJ: n.RecipientCNPJ,
		CompanyID:     n.CompanyID,
		IssueDate:     n.IssueDate,
		TotalValue:    n.TotalValue,
		PDFURL:        n.PDFURL,
		XMLURL:        n.XMLURL,
		SyncStatus:    n.SyncStatus,
		Status:        n.Status,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

func toResponseList(notes []*note.Note) []noteResponse {
	resp := make([]noteResponse, len(notes))
	for i, n := range notes {
		resp[i] = toResponse(n)
	}

	return resp
}
