package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/viaconta/nfsync/internal/company"
	"github.com/viaconta/nfsync/internal/note"
	"github.com/viaconta/nfsync/internal/plugnotas"
	"github.com/viaconta/nfsync/internal/syncrun"
)

func TestEngine_RecoverFromStore_GroupsAttachments(t *testing.T) {
	e, m := newTestEngine(t, Options{})

	comp := testCompany()

	m.docs.EXPECT().List(gomock.Any(), "notas/").Return([]string{
		"notas/99888777000166/2026/07/NFSe_2026-07-10_100.pdf",
		"notas/99888777000166/2026/07/NFSe_2026-07-10_100.xml",
		"notas/99888777000166/2026/07/.emptyFolderPlaceholder",
	}, nil)

	m.catalog.EXPECT().FindByNaturalKey(gomock.Any(), "100", "").Return(nil, note.ErrNotFound)
	m.source.EXPECT().
		Search(gomock.Any(), "100", "", "99888777000166").
		Return(rawPtr(rawNote("66b1f0a2c3d4e5f6a7b8c9d0", "100")), nil)

	m.docs.EXPECT().
		ResolveURL(gomock.Any(), "notas/99888777000166/2026/07/NFSe_2026-07-10_100.pdf").
		Return("https://bucket.example/100.pdf", nil)
	m.docs.EXPECT().
		ResolveURL(gomock.Any(), "notas/99888777000166/2026/07/NFSe_2026-07-10_100.xml").
		Return("https://bucket.example/100.xml", nil)

	m.companies.EXPECT().FindByCNPJ(gomock.Any(), "99888777000166").Return(comp, nil)

	var upserted *note.Note

	m.catalog.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *note.Note) (bool, error) {
			upserted = n
			return true, nil
		})

	var run *syncrun.Run

	m.runs.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *syncrun.Run) error {
			run = r
			return nil
		})

	summary, err := e.RecoverFromStore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Found: 1, Synced: 1, Errors: 0}, summary)

	require.NotNil(t, upserted)

	// Healed from the source, not reconstructed from the key alone.
	assert.Equal(t, "66b1f0a2c3d4e5f6a7b8c9d0", upserted.ExternalID)
	assert.Equal(t, issuerCNPJ, upserted.IssuerCNPJ)
	assert.True(t, upserted.TotalValue.Equal(decimalFromString(t, "150.5")))

	assert.Equal(t, "notas/99888777000166/2026/07/NFSe_2026-07-10_100.pdf", upserted.PDFPath)
	assert.Equal(t, "https://bucket.example/100.pdf", upserted.PDFURL)
	assert.Equal(t, "https://bucket.example/100.xml", upserted.XMLURL)
	assert.Equal(t, &comp.ID, upserted.CompanyID)
	assert.Equal(t, note.SyncSynced, upserted.SyncStatus)

	require.NotNil(t, run)
	assert.Equal(t, syncrun.OutcomeCompleted, run.Outcome)
	assert.Equal(t, 1, run.NotesFound)
}

func TestEngine_RecoverFromStore_HealsViaStoredExternalID(t *testing.T) {
	e, m := newTestEngine(t, Options{})

	key := "notas/99888777000166/2026/07/NFSe_10-07-2026_100_11222333000181.pdf"

	m.docs.EXPECT().List(gomock.Any(), "notas/").Return([]string{key}, nil)

	// The catalog already knows the source's real id, so the direct lookup
	// is used and no period search happens.
	m.catalog.EXPECT().
		FindByNaturalKey(gomock.Any(), "100", "11222333000181").
		Return(&note.Note{ExternalID: "66b1f0a2c3d4e5f6a7b8c9d0"}, nil)
	m.source.EXPECT().
		FetchByID(gomock.Any(), "66b1f0a2c3d4e5f6a7b8c9d0").
		Return(rawPtr(rawNote("66b1f0a2c3d4e5f6a7b8c9d0", "100")), nil)

	m.docs.EXPECT().ResolveURL(gomock.Any(), key).Return("https://bucket.example/100.pdf", nil)
	m.companies.EXPECT().FindByCNPJ(gomock.Any(), "99888777000166").Return(nil, company.ErrNotFound)

	var upserted *note.Note

	m.catalog.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *note.Note) (bool, error) {
			upserted = n
			return false, nil
		})

	m.runs.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	summary, err := e.RecoverFromStore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Found: 1, Synced: 1, Errors: 0}, summary)

	require.NotNil(t, upserted)
	assert.Equal(t, "66b1f0a2c3d4e5f6a7b8c9d0", upserted.ExternalID)
	assert.True(t, upserted.TotalValue.Equal(decimalFromString(t, "150.5")))
}

func TestEngine_RecoverFromStore_SourceMissFallsBackToKeyIdentity(t *testing.T) {
	e, m := newTestEngine(t, Options{})

	// Legacy key layout carries the issuer CNPJ and a day-first date.
	key := "notas/99888777000166/2026/07/NFSe_10-07-2026_100_11222333000181.pdf"

	m.docs.EXPECT().List(gomock.Any(), "notas/").Return([]string{key}, nil)

	m.catalog.EXPECT().FindByNaturalKey(gomock.Any(), "100", "11222333000181").Return(nil, note.ErrNotFound)
	m.source.EXPECT().
		Search(gomock.Any(), "100", "11222333000181", "99888777000166").
		Return(nil, plugnotas.ErrDocumentNotFound)

	m.docs.EXPECT().ResolveURL(gomock.Any(), key).Return("https://bucket.example/100.pdf", nil)
	m.companies.EXPECT().FindByCNPJ(gomock.Any(), "99888777000166").Return(nil, company.ErrNotFound)

	var upserted *note.Note

	m.catalog.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *note.Note) (bool, error) {
			upserted = n
			return true, nil
		})

	m.runs.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	summary, err := e.RecoverFromStore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Found: 1, Synced: 1, Errors: 0}, summary)

	require.NotNil(t, upserted)
	assert.Equal(t, "100_11222333000181", upserted.ExternalID)
	assert.Equal(t, "100", upserted.Number)
	assert.Equal(t, issuerCNPJ, upserted.IssuerCNPJ)
	assert.Equal(t, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC), upserted.IssueDate)
	assert.Nil(t, upserted.CompanyID)
	assert.Empty(t, upserted.XMLPath)
}

func TestEngine_RecoverFromStore_ListFailureFailsRun(t *testing.T) {
	e, m := newTestEngine(t, Options{})

	m.docs.EXPECT().List(gomock.Any(), "notas/").Return(nil, errors.New("bucket unreachable"))

	var run *syncrun.Run

	m.runs.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *syncrun.Run) error {
			run = r
			return nil
		})

	_, err := e.RecoverFromStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing stored documents")

	require.NotNil(t, run)
	assert.Equal(t, syncrun.OutcomeFailed, run.Outcome)
}

func TestEngine_RecoverFromStore_UpsertFailureCounted(t *testing.T) {
	e, m := newTestEngine(t, Options{})

	m.docs.EXPECT().List(gomock.Any(), "notas/").Return([]string{
		"notas/99888777000166/2026/07/NFSe_2026-07-10_100.pdf",
	}, nil)

	m.catalog.EXPECT().FindByNaturalKey(gomock.Any(), "100", "").Return(nil, note.ErrNotFound)
	m.source.EXPECT().Search(gomock.Any(), "100", "", "99888777000166").Return(nil, plugnotas.ErrDocumentNotFound)
	m.docs.EXPECT().ResolveURL(gomock.Any(), gomock.Any()).Return("https://bucket.example/100.pdf", nil)
	m.companies.EXPECT().FindByCNPJ(gomock.Any(), "99888777000166").Return(nil, company.ErrNotFound)
	m.catalog.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(false, errors.New("connection reset"))

	var run *syncrun.Run

	m.runs.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *syncrun.Run) error {
			run = r
			return nil
		})

	summary, err := e.RecoverFromStore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Found: 1, Synced: 0, Errors: 1}, summary)

	require.NotNil(t, run)
	assert.Equal(t, syncrun.OutcomeCompleted, run.Outcome)
	assert.Equal(t, "1 record errors", run.ErrorSummary)
}

func rawPtr(n plugnotas.RawNote) *plugnotas.RawNote {
	return &n
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	require.NoError(t, err)

	return d
}
