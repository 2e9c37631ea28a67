package storage_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viaconta/nfsync/internal/storage"
)

// fakeStore is an in-memory BlobStore for mirror tests.
type fakeStore struct {
	name     string
	objects  map[string][]byte
	storeErr error
}

func newFakeStore(name string) *fakeStore {
	return &fakeStore{name: name, objects: make(map[string][]byte)}
}

func (f *fakeStore) Store(_ context.Context, key string, data []byte, _ string) error {
	if f.storeErr != nil {
		return f.storeErr
	}

	f.objects[key] = data

	return nil
}

func (f *fakeStore) ResolveURL(_ context.Context, key string) (string, error) {
	return fmt.Sprintf("https://%s.example.com/%s", f.name, key), nil
}

func (f *fakeStore) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string

	for k := range f.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}

	return keys, nil
}

func TestMirror_Put(t *testing.T) {
	type testCase struct {
		name        string
		primaryErr  error
		archiveErr  error
		wantURLHost string
		wantStored  bool
	}

	tests := []testCase{
		{
			name:        "BothSucceed",
			wantURLHost: "primary",
			wantStored:  true,
		},
		{
			name:        "PrimaryFails",
			primaryErr:  errors.New("bucket down"),
			wantURLHost: "archive",
			wantStored:  true,
		},
		{
			name:        "ArchiveFails",
			archiveErr:  errors.New("auth expired"),
			wantURLHost: "primary",
			wantStored:  true,
		},
		{
			name:       "BothFail",
			primaryErr: errors.New("bucket down"),
			archiveErr: errors.New("auth expired"),
			wantStored: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := newFakeStore("primary")
			primary.storeErr = tt.primaryErr

			archive := newFakeStore("archive")
			archive.storeErr = tt.archiveErr

			mirror := storage.NewMirror(primary, archive)

			res := mirror.Put(context.Background(), "notas/x/doc.pdf", []byte("%PDF"), "application/pdf")

			assert.Equal(t, tt.wantStored, res.Stored())

			if tt.wantURLHost != "" {
				assert.Contains(t, res.URL, tt.wantURLHost+".example.com")
			} else {
				assert.Empty(t, res.URL)
			}

			// One target failing never blocks the other.
			if tt.primaryErr == nil {
				assert.Contains(t, primary.objects, "notas/x/doc.pdf")
			}
			if tt.archiveErr == nil {
				assert.Contains(t, archive.objects, "notas/x/doc.pdf")
			}
		})
	}
}

func TestMirror_List_DelegatesToArchive(t *testing.T) {
	primary := newFakeStore("primary")
	archive := newFakeStore("archive")
	archive.objects["notas/a.pdf"] = []byte("x")
	archive.objects["other/b.pdf"] = []byte("y")

	mirror := storage.NewMirror(primary, archive)

	keys, err := mirror.List(context.Background(), "notas/")
	require.NoError(t, err)
	assert.Equal(t, []string{"notas/a.pdf"}, keys)
}

func TestHTTPBucket_Store(t *testing.T) {
	var gotPath, gotUpsert, gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUpsert = r.Header.Get("x-upsert")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	bucket := storage.NewHTTPBucket(storage.HTTPBucketConfig{
		BaseURL:    srv.URL,
		Bucket:     "service-notes",
		ServiceKey: "svc-key",
	})

	err := bucket.Store(context.Background(), "notas/x/doc.pdf", []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/object/service-notes/notas/x/doc.pdf", gotPath)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, "Bearer svc-key", gotAuth)

	url, err := bucket.ResolveURL(context.Background(), "notas/x/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/object/public/service-notes/notas/x/doc.pdf", url)
}

func TestHTTPBucket_Store_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer srv.Close()

	bucket := storage.NewHTTPBucket(storage.HTTPBucketConfig{BaseURL: srv.URL, Bucket: "b", ServiceKey: "k"})

	err := bucket.Store(context.Background(), "k.pdf", nil, "application/pdf")
	assert.ErrorContains(t, err, "status 404")
}
