package plugnotas_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viaconta/nfsync/internal/plugnotas"
)

func TestClient_FetchPeriod_Pagination(t *testing.T) {
	var gotTokens []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret-key", r.Header.Get("X-API-KEY"))
		require.Equal(t, "/nfse/nacional/25249058000102/consultar/periodo", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("ator"))

		token := r.URL.Query().Get("hashProximaPagina")
		gotTokens = append(gotTokens, token)

		resp := map[string]any{
			"notas": []map[string]any{{"id": "note-" + token}},
		}
		if token == "" {
			resp["hashProximaPagina"] = "page-2"
		}

		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := plugnotas.New(plugnotas.Config{BaseURL: srv.URL, APIKey: "secret-key"})

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	page, err := client.FetchPeriod(context.Background(), "25.249.058/0001-02", from, to, "")
	require.NoError(t, err)
	assert.Len(t, page.Notes, 1)
	assert.Equal(t, "page-2", page.NextPageToken)

	page, err = client.FetchPeriod(context.Background(), "25.249.058/0001-02", from, to, page.NextPageToken)
	require.NoError(t, err)
	assert.Empty(t, page.NextPageToken)

	assert.Equal(t, []string{"", "page-2"}, gotTokens)
}

func TestClient_FetchByID(t *testing.T) {
	type testCase struct {
		name    string
		status  int
		body    string
		wantErr error
	}

	tests := []testCase{
		{
			name:   "Found",
			status: http.StatusOK,
			body:   `{"id":"abc123","numeroNfse":"77"}`,
		},
		{
			name:    "NotFound",
			status:  http.StatusNotFound,
			body:    `{}`,
			wantErr: plugnotas.ErrDocumentNotFound,
		},
		{
			name:    "ServerError",
			status:  http.StatusInternalServerError,
			body:    `{}`,
			wantErr: plugnotas.ErrSourceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			client := plugnotas.New(plugnotas.Config{BaseURL: srv.URL, APIKey: "k"})

			note, err := client.FetchByID(context.Background(), "abc123")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, note)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "abc123", note.ID)
			assert.Equal(t, "77", note.DocumentNumber())
		})
	}
}

func TestClient_Search_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "99", r.URL.Query().Get("numero"))
		assert.Equal(t, "25249058000102", r.URL.Query().Get("cnpjPrestador"))
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	client := plugnotas.New(plugnotas.Config{BaseURL: srv.URL, APIKey: "k"})

	_, err := client.Search(context.Background(), "99", "25.249.058/0001-02", "")
	assert.ErrorIs(t, err, plugnotas.ErrDocumentNotFound)
}

func TestClient_DocumentURL(t *testing.T) {
	client := plugnotas.New(plugnotas.Config{BaseURL: "https://api.example.com", APIKey: "k"})

	type testCase struct {
		name string
		note plugnotas.RawNote
		kind plugnotas.DocumentKind
		want string
	}

	tests := []testCase{
		{
			name: "PlainString",
			note: plugnotas.RawNote{ID: "n1", PDF: json.RawMessage(`"https://cdn.example.com/n1.pdf"`)},
			kind: plugnotas.DocumentPDF,
			want: "https://cdn.example.com/n1.pdf",
		},
		{
			name: "ObjectWithURL",
			note: plugnotas.RawNote{ID: "n1", XML: json.RawMessage(`{"url":"https://cdn.example.com/n1.xml"}`)},
			kind: plugnotas.DocumentXML,
			want: "https://cdn.example.com/n1.xml",
		},
		{
			name: "FallbackToAPI",
			note: plugnotas.RawNote{ID: "n1"},
			kind: plugnotas.DocumentPDF,
			want: "https://api.example.com/nfse/pdf/n1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.DocumentURL(&tt.note, tt.kind))
		})
	}
}

func TestRawNote_IssueDate(t *testing.T) {
	type testCase struct {
		name    string
		issued  string
		want    time.Time
		wantErr bool
	}

	tests := []testCase{
		{
			name:   "ISO",
			issued: "2026-02-10T14:30:00",
			want:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "Brazilian",
			issued: "10/02/2026",
			want:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "SlashedISO",
			issued: "2026/02/10",
			want:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "Garbage",
			issued:  "not-a-date",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := plugnotas.RawNote{Issued: tt.issued}

			got, err := note.IssueDate()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRawNote_TaxIDFields(t *testing.T) {
	note := plugnotas.RawNote{
		Issuer:    json.RawMessage(`{"cpfCnpj":"11222333000181"}`),
		Recipient: json.RawMessage(`"25249058000102"`),
	}

	assert.Equal(t, "11222333000181", note.IssuerTaxID())
	assert.Equal(t, "25249058000102", note.RecipientTaxID())
}

func TestRawNote_DocumentNumber(t *testing.T) {
	note := plugnotas.RawNote{ID: "abc", Number: json.RawMessage(`123`)}
	assert.Equal(t, "123", note.DocumentNumber())

	note.NFSeNumber = json.RawMessage(`"456"`)
	assert.Equal(t, "456", note.DocumentNumber())

	assert.Equal(t, "abc", (&plugnotas.RawNote{ID: "abc"}).DocumentNumber())
}
