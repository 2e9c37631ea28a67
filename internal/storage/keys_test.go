package storage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viaconta/nfsync/internal/storage"
)

func TestBuildKey(t *testing.T) {
	issued := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	key := storage.BuildKey("25249058000102", issued, "123", "pdf")
	assert.Equal(t, "notas/25249058000102/2026/02/NFSe_2026-02-10_123.pdf", key)
}

func TestParseKey(t *testing.T) {
	type testCase struct {
		name string
		key  string
		want storage.ParsedKey
		ok   bool
	}

	tests := []testCase{
		{
			name: "Canonical",
			key:  "notas/25249058000102/2026/02/NFSe_2026-02-10_123.pdf",
			want: storage.ParsedKey{
				RecipientCNPJ: "25249058000102",
				Number:        "123",
				IssueDate:     time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
				Kind:          "pdf",
			},
			ok: true,
		},
		{
			name: "LegacyDayFirstWithIssuer",
			key:  "notas/25249058000102/2026/02/NFSe_10-02-2026_123_11222333000181.xml",
			want: storage.ParsedKey{
				RecipientCNPJ: "25249058000102",
				IssuerCNPJ:    "11222333000181",
				Number:        "123",
				IssueDate:     time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
				Kind:          "xml",
			},
			ok: true,
		},
		{
			name: "WrongPrefix",
			key:  "uploads/25249058000102/2026/02/NFSe_2026-02-10_123.pdf",
			ok:   false,
		},
		{
			name: "NotADocument",
			key:  "notas/25249058000102/2026/02/readme.txt",
			ok:   false,
		},
		{
			name: "ImpossibleDate",
			key:  "notas/25249058000102/2026/02/NFSe_2026-14-10_123.pdf",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := storage.ParseKey(tt.key)

			if !tt.ok {
				assert.False(t, ok)
				return
			}

			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKey_RoundTrip(t *testing.T) {
	issued := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	key := storage.BuildKey("25249058000102", issued, "4567", "xml")

	parsed, ok := storage.ParseKey(key)
	require.True(t, ok)
	assert.Equal(t, "25249058000102", parsed.RecipientCNPJ)
	assert.Equal(t, "4567", parsed.Number)
	assert.Equal(t, issued, parsed.IssueDate)
	assert.Equal(t, "xml", parsed.Kind)
}

func TestContentTypeForKey(t *testing.T) {
	assert.Equal(t, "application/pdf", storage.ContentTypeForKey("a/b.pdf"))
	assert.Equal(t, "application/xml", storage.ContentTypeForKey("a/b.xml"))
}
