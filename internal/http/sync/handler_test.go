package sync_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	synchttp "github.com/viaconta/nfsync/internal/http/sync"
	"github.com/viaconta/nfsync/internal/reconcile"
	"github.com/viaconta/nfsync/internal/syncrun"
)

type fakeReconciler struct {
	summary reconcile.Summary
	err     error
}

func (f *fakeReconciler) Run(context.Context) (reconcile.Summary, error) {
	return f.summary, f.err
}

func (f *fakeReconciler) RecoverFromStore(context.Context) (reconcile.Summary, error) {
	return f.summary, f.err
}

func newServer(t *testing.T, engine synchttp.Reconciler, repo syncrun.Repository) *httptest.Server {
	t.Helper()

	h := synchttp.NewHandler(engine, syncrun.NewService(repo))

	r := chi.NewRouter()
	r.Route("/sync", h.Routes)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv
}

func TestHandler_Trigger(t *testing.T) {
	tests := []struct {
		name       string
		engine     *fakeReconciler
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Completed",
			engine:     &fakeReconciler{summary: reconcile.Summary{Found: 3, Synced: 2, Errors: 1}},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"completed","found":3,"synced":2,"errors":1}`,
		},
		{
			name:       "Failed",
			engine:     &fakeReconciler{err: errors.New("source down")},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"status":"failed","found":0,"synced":0,"errors":0}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			srv := newServer(t, tc.engine, syncrun.NewMockRepository(ctrl))

			resp, err := http.Post(srv.URL+"/sync", "application/json", nil)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

			var want map[string]any
			require.NoError(t, json.Unmarshal([]byte(tc.wantBody), &want))
			assert.Equal(t, want, body)
		})
	}
}

func TestHandler_Status(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	started := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	finished := started.Add(90 * time.Second)

	repo := syncrun.NewMockRepository(ctrl)
	repo.EXPECT().Latest(gomock.Any()).Return(&syncrun.Run{
		StartedAt:   started,
		FinishedAt:  finished,
		Outcome:     syncrun.OutcomeCompleted,
		NotesFound:  12,
		NotesSynced: 12,
	}, nil)

	srv := newServer(t, &fakeReconciler{}, repo)

	resp, err := http.Get(srv.URL + "/sync/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status      string    `json:"status"`
		FinishedAt  time.Time `json:"finished_at"`
		NotesFound  int       `json:"notes_found"`
		NotesSynced int       `json:"notes_synced"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, "completed", body.Status)
	assert.Equal(t, finished, body.FinishedAt.UTC())
	assert.Equal(t, 12, body.NotesFound)
	assert.Equal(t, 12, body.NotesSynced)
}

func TestHandler_Status_NeverSynced(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := syncrun.NewMockRepository(ctrl)
	repo.EXPECT().Latest(gomock.Any()).Return(nil, syncrun.ErrNoRuns)

	srv := newServer(t, &fakeReconciler{}, repo)

	resp, err := http.Get(srv.URL + "/sync/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, "never_synced", body.Status)
}
