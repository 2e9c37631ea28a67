package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/viaconta/nfsync/internal/company"
	"github.com/viaconta/nfsync/internal/note"
	"github.com/viaconta/nfsync/internal/plugnotas"
	"github.com/viaconta/nfsync/internal/storage"
	"github.com/viaconta/nfsync/internal/syncrun"
)

// recoveredNote groups the pdf/xml keys that belong to one invoice,
// reconstructed from the document tree alone.
type recoveredNote struct {
	identity storage.ParsedKey
	pdfKey   string
	xmlKey   string
}

// RecoverFromStore reconciles the catalog from the archive's document tree
// instead of the source API: every stored attachment is mapped back to an
// invoice identity, grouped, and upserted. Rows whose total is unknown are
// healed by querying the source. This is the repair path for documents that
// were mirrored before their catalog write succeeded.
func (e *Engine) RecoverFromStore(ctx context.Context) (Summary, error) {
	started := e.now()

	keys, err := e.docs.List(ctx, storage.KeyPrefix)
	if err != nil {
		err = fmt.Errorf("listing stored documents: %w", err)
		e.finalize(ctx, started, syncrun.OutcomeFailed, Summary{}, err.Error())

		return Summary{}, err
	}

	grouped := groupKeys(keys)

	var s Summary

	s.Found = len(grouped)

	for _, rec := range grouped {
		if ctx.Err() != nil {
			slog.Warn("recovery canceled", "remaining", s.Found-s.Synced-s.Errors)

			break
		}

		if err := e.recoverNote(ctx, rec); err != nil {
			slog.Error("recovering note failed", "number", rec.identity.Number, "error", err)

			s.Errors++

			continue
		}

		s.Synced++
	}

	e.finalize(ctx, started, syncrun.OutcomeCompleted, s, "")

	return s, nil
}

// groupKeys pairs pdf and xml keys per invoice, skipping keys outside the
// layout. Output order is deterministic.
func groupKeys(keys []string) []*recoveredNote {
	byIdentity := make(map[string]*recoveredNote)

	var order []string

	for _, key := range keys {
		parsed, ok := storage.ParseKey(key)
		if !ok {
			continue
		}

		id := fmt.Sprintf("%s_%s_%s", parsed.RecipientCNPJ, parsed.Number, parsed.IssueDate.Format("2006-01-02"))

		rec, exists := byIdentity[id]
		if !exists {
			rec = &recoveredNote{identity: parsed}
			byIdentity[id] = rec

			order = append(order, id)
		}

		if parsed.Kind == "pdf" {
			rec.pdfKey = key
		} else {
			rec.xmlKey = key
		}
	}

	sort.Strings(order)

	grouped := make([]*recoveredNote, len(order))
	for i, id := range order {
		grouped[i] = byIdentity[id]
	}

	return grouped
}

func (e *Engine) recoverNote(ctx context.Context, rec *recoveredNote) error {
	n := e.noteFromIdentity(ctx, rec.identity)

	n.PDFPath = rec.pdfKey
	n.XMLPath = rec.xmlKey

	if rec.pdfKey != "" {
		if url, err := e.docs.ResolveURL(ctx, rec.pdfKey); err == nil {
			n.PDFURL = url
		}
	}

	if rec.xmlKey != "" {
		if url, err := e.docs.ResolveURL(ctx, rec.xmlKey); err == nil {
			n.XMLURL = url
		}
	}

	if comp, err := e.companies.FindByCNPJ(ctx, rec.identity.RecipientCNPJ); err == nil {
		n.CompanyID = &comp.ID
	} else if !errors.Is(err, company.ErrNotFound) {
		return fmt.Errorf("resolving company: %w", err)
	}

	n.SyncStatus = note.SyncSynced

	if _, err := e.catalog.Upsert(ctx, n); err != nil {
		return fmt.Errorf("upserting recovered note: %w", err)
	}

	return nil
}

// noteFromIdentity builds the best note the identity allows. The source is
// consulted to heal the total value and the authoritative id; when it has
// no answer the key-derived fields stand on their own.
func (e *Engine) noteFromIdentity(ctx context.Context, id storage.ParsedKey) *note.Note {
	if raw := e.lookupSource(ctx, id); raw != nil {
		return note.FromRaw(raw, id.RecipientCNPJ)
	}

	return &note.Note{
		ExternalID:    note.SyntheticID(id.Number, id.IssuerCNPJ),
		Number:        id.Number,
		IssuerCNPJ:    note.FormatCNPJ(id.IssuerCNPJ),
		RecipientCNPJ: note.FormatCNPJ(id.RecipientCNPJ),
		IssueDate:     id.IssueDate,
		Year:          id.IssueDate.Year(),
		Month:         int(id.IssueDate.Month()),
		Day:           id.IssueDate.Day(),
		Status:        note.StatusActive,
	}
}

// lookupSource heals a key-derived identity against the source. When the
// catalog already holds the row under its real external id, the direct
// lookup is authoritative; otherwise the period search decides.
func (e *Engine) lookupSource(ctx context.Context, id storage.ParsedKey) *plugnotas.RawNote {
	if existing, err := e.catalog.FindByNaturalKey(ctx, id.Number, id.IssuerCNPJ); err == nil {
		if existing.ExternalID != "" && !note.IsSyntheticID(existing.ExternalID) {
			raw, err := e.source.FetchByID(ctx, existing.ExternalID)
			if err == nil {
				return raw
			}

			if !errors.Is(err, plugnotas.ErrDocumentNotFound) {
				slog.Warn("source lookup by id failed during recovery", "id", existing.ExternalID, "error", err)
			}
		}
	} else if !errors.Is(err, note.ErrNotFound) {
		slog.Warn("catalog lookup failed during recovery", "number", id.Number, "error", err)
	}

	raw, err := e.source.Search(ctx, id.Number, id.IssuerCNPJ, id.RecipientCNPJ)
	if err != nil {
		if !errors.Is(err, plugnotas.ErrDocumentNotFound) {
			slog.Warn("source lookup failed during recovery", "number", id.Number, "error", err)
		}

		return nil
	}

	return raw
}
