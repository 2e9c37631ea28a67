package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/viaconta/nfsync/internal/company"
	"github.com/viaconta/nfsync/internal/encoding"
	"github.com/viaconta/nfsync/internal/note"
	"github.com/viaconta/nfsync/internal/plugnotas"
	"github.com/viaconta/nfsync/internal/storage"
	"github.com/viaconta/nfsync/internal/syncrun"
)

//go:generate mockgen -source=engine.go -destination=engine_mock.go -package=reconcile

// Source is the slice of the fiscal API the engine consumes.
type Source interface {
	FetchPeriod(ctx context.Context, cnpj string, from, to time.Time, pageToken string) (plugnotas.Page, error)
	FetchByID(ctx context.Context, id string) (*plugnotas.RawNote, error)
	Search(ctx context.Context, number, issuerCNPJ, recipientCNPJ string) (*plugnotas.RawNote, error)
	DocumentURL(note *plugnotas.RawNote, kind plugnotas.DocumentKind) string
	FetchBinary(ctx context.Context, url string) ([]byte, error)
}

// DocumentStore mirrors binary documents and resolves download URLs.
type DocumentStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) storage.MirrorResult
	ResolveURL(ctx context.Context, key string) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// Catalog is the engine's slice of the note catalog: the upsert write path
// plus the natural-key read recovery uses to find a stored external id.
type Catalog interface {
	Upsert(ctx context.Context, n *note.Note) (bool, error)
	FindByNaturalKey(ctx context.Context, number, issuerCNPJ string) (*note.Note, error)
}

// Summary is the run outcome reported to callers and the ledger.
type Summary struct {
	Found  int `json:"found"`
	Synced int `json:"synced"`
	Errors int `json:"errors"`
}

type Options struct {
	// LookbackMonths is the rolling window re-scanned each run.
	LookbackMonths int
	// CompanyWorkers bounds how many companies are processed concurrently.
	// Each company's pages stay strictly sequential.
	CompanyWorkers int
}

// Engine drives one reconciliation pass: source traversal, document
// mirroring, identity resolution, upsert, and the final ledger write.
type Engine struct {
	source    Source
	docs      DocumentStore
	catalog   Catalog
	companies company.Repository
	runs      syncrun.Repository
	opts      Options
	now       func() time.Time
}

func New(source Source, docs DocumentStore, catalog Catalog, companies company.Repository, runs syncrun.Repository, opts Options) *Engine {
	if opts.LookbackMonths < 1 {
		opts.LookbackMonths = 6
	}

	if opts.CompanyWorkers < 1 {
		opts.CompanyWorkers = 1
	}

	return &Engine{
		source:    source,
		docs:      docs,
		catalog:   catalog,
		companies: companies,
		runs:      runs,
		opts:      opts,
		now:       time.Now,
	}
}

// Run reconciles every active company over the lookback window. Per-record
// failures are counted and skipped; the run itself fails only when the
// company listing (the step before any record is seen) fails.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	started := e.now()

	companies, err := e.companies.ListActive(ctx)
	if err != nil {
		err = fmt.Errorf("listing companies: %w", err)
		e.finalize(ctx, started, syncrun.OutcomeFailed, Summary{}, err.Error())

		return Summary{}, err
	}

	windows := monthWindows(e.now(), e.opts.LookbackMonths)

	results := make([]companyResult, len(companies))

	g := new(errgroup.Group)
	g.SetLimit(e.opts.CompanyWorkers)

	for i, comp := range companies {
		g.Go(func() error {
			results[i] = e.syncCompany(ctx, comp, windows)

			return nil
		})
	}

	g.Wait()

	var (
		summary       Summary
		listingFailed bool
	)

	for _, r := range results {
		summary.Found += r.Found
		summary.Synced += r.Synced
		summary.Errors += r.Errors
		listingFailed = listingFailed || r.listingFailed
	}

	// A listing failure before any record was seen is a run-level failure;
	// once records are flowing, listing errors degrade to per-page errors.
	if listingFailed && summary.Found == 0 {
		err := fmt.Errorf("period listing failed before any record was seen")
		e.finalize(ctx, started, syncrun.OutcomeFailed, summary, err.Error())

		return summary, err
	}

	e.finalize(ctx, started, syncrun.OutcomeCompleted, summary, "")

	return summary, nil
}

type companyResult struct {
	Summary

	listingFailed bool
}

// syncCompany walks every month window page by page. Cancellation is
// honored at page boundaries only: the in-flight page finishes, so no
// record is abandoned between its document writes and its catalog row.
func (e *Engine) syncCompany(ctx context.Context, comp *company.Company, windows []monthWindow) companyResult {
	var s companyResult

	log := slog.With("company", comp.CNPJ)

	for _, w := range windows {
		pageToken := ""

		for {
			if ctx.Err() != nil {
				log.Warn("sync canceled, stopping at page boundary")

				return s
			}

			page, err := e.source.FetchPeriod(ctx, comp.CNPJ, w.From, w.To, pageToken)
			if err != nil {
				log.Error("period listing failed", "from", w.From.Format(time.DateOnly), "error", err)

				s.Errors++
				s.listingFailed = true

				break
			}

			for i := range page.Notes {
				s.Found++

				synced, errs := e.processNote(ctx, comp, &page.Notes[i])

				s.Errors += errs
				if synced {
					s.Synced++
				}
			}

			pageToken = page.NextPageToken
			if pageToken == "" {
				break
			}
		}
	}

	if err := e.companies.TouchLastSync(ctx, comp.ID, e.now()); err != nil {
		log.Error("updating company last sync failed", "error", err)
	}

	log.Info("company synced", "found", s.Found, "synced", s.Synced, "errors", s.Errors)

	return s
}

// processNote mirrors the note's documents (best effort, independently per
// attachment) and upserts the catalog row. Returns whether the row was
// written and how many per-record errors occurred.
func (e *Engine) processNote(ctx context.Context, comp *company.Company, raw *plugnotas.RawNote) (bool, int) {
	n := note.FromRaw(raw, comp.CNPJ)
	n.CompanyID = &comp.ID

	errs := 0

	for _, kind := range []plugnotas.DocumentKind{plugnotas.DocumentPDF, plugnotas.DocumentXML} {
		key, url, err := e.mirrorDocument(ctx, comp, raw, n, kind)
		if err != nil {
			slog.Warn("document mirror failed", "note", n.Number, "kind", kind, "error", err)

			errs++

			continue
		}

		if kind == plugnotas.DocumentPDF {
			n.PDFPath, n.PDFURL = key, url
		} else {
			n.XMLPath, n.XMLURL = key, url
		}
	}

	// A row with no stored attachment stays pending so the next run
	// retries its documents.
	if n.PDFPath != "" || n.XMLPath != "" {
		n.SyncStatus = note.SyncSynced
	}

	if _, err := e.catalog.Upsert(ctx, n); err != nil {
		slog.Error("catalog upsert failed", "note", n.Number, "error", err)

		return false, errs + 1
	}

	return true, errs
}

func (e *Engine) mirrorDocument(ctx context.Context, comp *company.Company, raw *plugnotas.RawNote, n *note.Note, kind plugnotas.DocumentKind) (string, string, error) {
	data, err := e.source.FetchBinary(ctx, e.source.DocumentURL(raw, kind))
	if err != nil {
		return "", "", err
	}

	if kind == plugnotas.DocumentXML {
		// Municipal issuers emit XML in mixed encodings; store UTF-8 only.
		normalized, err := encoding.NormalizeXML(data)
		if err != nil {
			slog.Warn("xml normalization failed, storing raw payload", "note", n.Number, "error", err)
		} else {
			data = normalized
		}
	}

	key := storage.BuildKey(note.CNPJDigits(comp.CNPJ), n.IssueDate, n.Number, string(kind))

	res := e.docs.Put(ctx, key, data, storage.ContentTypeForKey(key))
	if !res.Stored() {
		return "", "", fmt.Errorf("storing %s: primary: %v, archive: %v", key, res.PrimaryErr, res.ArchiveErr)
	}

	if res.PrimaryErr != nil {
		slog.Warn("primary store write failed, archive only", "key", key, "error", res.PrimaryErr)
	}

	if res.ArchiveErr != nil {
		slog.Warn("archive store write failed, primary only", "key", key, "error", res.ArchiveErr)
	}

	return key, res.URL, nil
}

// finalize appends the run's single ledger row. A ledger write failure is
// logged but never turns a finished run into a failed one. The write runs
// on an uncancelable context so a canceled run still records its row.
func (e *Engine) finalize(ctx context.Context, started time.Time, outcome syncrun.Outcome, s Summary, errMsg string) {
	ctx = context.WithoutCancel(ctx)

	summaryMsg := errMsg
	if summaryMsg == "" && s.Errors > 0 {
		summaryMsg = fmt.Sprintf("%d record errors", s.Errors)
	}

	run := &syncrun.Run{
		StartedAt:    started,
		FinishedAt:   e.now(),
		Outcome:      outcome,
		NotesFound:   s.Found,
		NotesSynced:  s.Synced,
		ErrorSummary: summaryMsg,
	}

	if err := e.runs.Insert(ctx, run); err != nil {
		slog.Error("recording sync run failed", "error", err)
	}
}
