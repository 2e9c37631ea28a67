package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	companyStore "github.com/viaconta/nfsync/internal/company/store"
	"github.com/viaconta/nfsync/internal/config"
	"github.com/viaconta/nfsync/internal/database"
	nfHttp "github.com/viaconta/nfsync/internal/http"
	noteHandler "github.com/viaconta/nfsync/internal/http/note"
	syncHandler "github.com/viaconta/nfsync/internal/http/sync"
	"github.com/viaconta/nfsync/internal/note"
	noteStore "github.com/viaconta/nfsync/internal/note/store"
	"github.com/viaconta/nfsync/internal/plugnotas"
	"github.com/viaconta/nfsync/internal/reconcile"
	"github.com/viaconta/nfsync/internal/storage"
	"github.com/viaconta/nfsync/internal/syncrun"
	syncrunStore "github.com/viaconta/nfsync/internal/syncrun/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	archive, err := storage.NewGCS(context.Background(), storage.GCSConfig{
		Bucket:          cfg.Archive.Bucket,
		CredentialsJSON: cfg.Archive.CredentialsJSON,
		URLExpiry:       cfg.Archive.URLExpiry,
	})
	if err != nil {
		slog.Error("failed to set up archive store", "error", err)
		os.Exit(1)
	}

	primary := storage.NewHTTPBucket(storage.HTTPBucketConfig{
		BaseURL:    cfg.Bucket.BaseURL,
		Bucket:     cfg.Bucket.Name,
		ServiceKey: cfg.Bucket.ServiceKey,
	})

	source := plugnotas.New(plugnotas.Config{
		BaseURL: cfg.PlugNotas.BaseURL,
		APIKey:  cfg.PlugNotas.APIKey,
		Timeout: cfg.PlugNotas.Timeout,
	})

	var (
		notes        = noteStore.New(db)
		companies    = companyStore.New(db)
		runs         = syncrunStore.New(db)
		noteResolver = note.NewResolver(notes)
		noteService  = note.NewService(notes)
		runService   = syncrun.NewService(runs)
	)

	engine := reconcile.New(
		source,
		storage.NewMirror(primary, archive),
		noteResolver,
		companies,
		runs,
		reconcile.Options{
			LookbackMonths: cfg.Sync.LookbackMonths,
			CompanyWorkers: cfg.Sync.CompanyWorkers,
		},
	)

	var (
		notesH = noteHandler.NewHandler(noteService)
		syncH  = syncHandler.NewHandler(engine, runService)
	)

	router := nfHttp.New(notesH, syncH, cfg.Sync.TriggerSecret)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
