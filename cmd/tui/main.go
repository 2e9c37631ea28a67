package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/viaconta/nfsync/cmd/tui/internal/view"
	companyStore "github.com/viaconta/nfsync/internal/company/store"
	"github.com/viaconta/nfsync/internal/config"
	"github.com/viaconta/nfsync/internal/database"
	"github.com/viaconta/nfsync/internal/note"
	noteStore "github.com/viaconta/nfsync/internal/note/store"
	"github.com/viaconta/nfsync/internal/plugnotas"
	"github.com/viaconta/nfsync/internal/reconcile"
	"github.com/viaconta/nfsync/internal/storage"
	"github.com/viaconta/nfsync/internal/syncrun"
	syncrunStore "github.com/viaconta/nfsync/internal/syncrun/store"
)

type model struct {
	noteService *note.Service
	runService  *syncrun.Service
	engine      *reconcile.Engine

	currentView View

	notesView  view.NotesModel
	syncView   view.SyncModel
	statusView view.StatusModel
}

type View int

const (
	ViewMenu   View = 0
	ViewNotes  View = 1
	ViewSync   View = 2
	ViewStatus View = 3
)

func initialModel() model {
	_ = godotenv.Load()

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

	notes := noteStore.New(db)
	noteSvc := note.NewService(notes)
	runSvc := syncrun.NewService(syncrunStore.New(db))

	engine := reconcile.New(
		source,
		storage.NewMirror(primary, archive),
		note.NewResolver(notes),
		companyStore.New(db),
		syncrunStore.New(db),
		reconcile.Options{
			LookbackMonths: cfg.Sync.LookbackMonths,
			CompanyWorkers: cfg.Sync.CompanyWorkers,
		},
	)

	return model{
		noteService: noteSvc,
		runService:  runSvc,
		engine:      engine,
		currentView: ViewMenu,
		notesView:   view.NewNotesModel(noteSvc),
		syncView:    view.NewSyncModel(engine),
		statusView:  view.NewStatusModel(runSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewNotes
				m.notesView = view.NewNotesModel(m.noteService)

				return m, m.notesView.Init()
			case "2":
				m.currentView = ViewSync
				m.syncView = view.NewSyncModel(m.engine)

				return m, m.syncView.Init()
			case "3":
				m.currentView = ViewStatus
				m.statusView = view.NewStatusModel(m.runService)

				return m, m.statusView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewNotes:
		var newModel tea.Model
		newModel, cmd = m.notesView.Update(msg)
		m.notesView = newModel.(view.NotesModel)
	case ViewSync:
		var newModel tea.Model
		newModel, cmd = m.syncView.Update(msg)
		m.syncView = newModel.(view.SyncModel)
	case ViewStatus:
		var newModel tea.Model
		newModel, cmd = m.statusView.Update(msg)
		m.statusView = newModel.(view.StatusModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"NFSync TUI\n\n" +
				"1. Browse Service Notes\n" +
				"2. Run Sync\n" +
				"3. Sync Status\n\n" +
				"q. Quit",
		)
	case ViewNotes:
		return m.notesView.View()
	case ViewSync:
		return m.syncView.View()
	case ViewStatus:
		return m.statusView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
