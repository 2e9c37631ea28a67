package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	companyStore "github.com/viaconta/nfsync/internal/company/store"
	"github.com/viaconta/nfsync/internal/config"
	"github.com/viaconta/nfsync/internal/database"
	"github.com/viaconta/nfsync/internal/note"
	noteStore "github.com/viaconta/nfsync/internal/note/store"
	"github.com/viaconta/nfsync/internal/plugnotas"
	"github.com/viaconta/nfsync/internal/reconcile"
	"github.com/viaconta/nfsync/internal/storage"
	syncrunStore "github.com/viaconta/nfsync/internal/syncrun/store"
)

// One-shot reconciliation pass, meant for cron. -recover rebuilds the
// catalog from the stored document tree instead of the source API.
func main() {
	fromStore := flag.Bool("recover", false, "rebuild the catalog from stored documents instead of the source API")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	archive, err := storage.NewGCS(ctx, storage.GCSConfig{
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

	engine := reconcile.New(
		source,
		storage.NewMirror(primary, archive),
		note.NewResolver(noteStore.New(db)),
		companyStore.New(db),
		syncrunStore.New(db),
		reconcile.Options{
			LookbackMonths: cfg.Sync.LookbackMonths,
			CompanyWorkers: cfg.Sync.CompanyWorkers,
		},
	)

	run := engine.Run
	if *fromStore {
		run = engine.RecoverFromStore
	}

	summary, err := run(ctx)

	if encErr := json.NewEncoder(os.Stdout).Encode(summary); encErr != nil {
		slog.Error("failed to encode summary", "error", encErr)
	}

	if err != nil {
		slog.Error("sync run failed", "error", err)
		os.Exit(1)
	}
}
