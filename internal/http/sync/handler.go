package sync

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/viaconta/nfsync/internal/reconcile"
	"github.com/viaconta/nfsync/internal/syncrun"
)

// Reconciler runs one reconciliation pass to completion.
type Reconciler interface {
	Run(ctx context.Context) (reconcile.Summary, error)
	RecoverFromStore(ctx context.Context) (reconcile.Summary, error)
}

type Handler struct {
	engine Reconciler
	runs   *syncrun.Service
}

func NewHandler(engine Reconciler, runs *syncrun.Service) *Handler {
	return &Handler{engine: engine, runs: runs}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.trigger)
	r.Post("/recover", h.recover)
	r.Get("/status", h.status)
}

type triggerResponse struct {
	Status string `json:"status"`
	reconcile.Summary
}

// trigger runs a full reconciliation pass and reports the summary. The
// pass runs on the request context: a dropped client stops the scan at
// the next page boundary, never mid-record.
func (h *Handler) trigger(w http.ResponseWriter, r *http.Request) {
	summary, err := h.engine.Run(r.Context())
	if err != nil {
		slog.Error("sync run failed", "error", err)

		writeJSON(w, http.StatusBadGateway, triggerResponse{Status: "failed", Summary: summary})

		return
	}

	writeJSON(w, http.StatusOK, triggerResponse{Status: "completed", Summary: summary})
}

func (h *Handler) recover(w http.ResponseWriter, r *http.Request) {
	summary, err := h.engine.RecoverFromStore(r.Context())
	if err != nil {
		slog.Error("store recovery failed", "error", err)

		writeJSON(w, http.StatusBadGateway, triggerResponse{Status: "failed", Summary: summary})

		return
	}

	writeJSON(w, http.StatusOK, triggerResponse{Status: "completed", Summary: summary})
}

type statusResponse struct {
	Status       string     `json:"status"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	NotesFound   int        `json:"notes_found"`
	NotesSynced  int        `json:"notes_synced"`
	ErrorSummary string     `json:"error_summary,omitempty"`
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	run, err := h.runs.Latest(r.Context())
	if err != nil {
		if errors.Is(err, syncrun.ErrNoRuns) {
			writeJSON(w, http.StatusOK, statusResponse{Status: "never_synced"})
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:       string(run.Outcome),
		StartedAt:    &run.StartedAt,
		FinishedAt:   &run.FinishedAt,
		NotesFound:   run.NotesFound,
		NotesSynced:  run.NotesSynced,
		ErrorSummary: run.ErrorSummary,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
