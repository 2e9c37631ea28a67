package view

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/viaconta/nfsync/internal/reconcile"
)

const syncTimeout = 30 * time.Minute

// Reconciler runs one reconciliation pass to completion.
type Reconciler interface {
	Run(ctx context.Context) (reconcile.Summary, error)
	RecoverFromStore(ctx context.Context) (reconcile.Summary, error)
}

type syncState int

const (
	syncStateSetup syncState = iota
	syncStateRunning
	syncStateResult
)

type SyncModel struct {
	CommonModel
	engine Reconciler

	state syncState
	form  *huh.Form

	summary reconcile.Summary
	err     error
}

func NewSyncModel(engine Reconciler) SyncModel {
	m := SyncModel{engine: engine}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[bool]().
				Key("mode").
				Title("Sync mode").
				Options(
					huh.NewOption("Full sync (source API)", false),
					huh.NewOption("Recover from stored documents", true),
				),

			huh.NewConfirm().
				Key("confirm").
				Title("Start now?").
				Affirmative("Run").
				Negative("Cancel"),
		),
	).WithWidth(50).WithShowHelp(false)

	return m
}

func (m SyncModel) Title() string { return "Run Sync" }

func (m SyncModel) ShortHelp() string {
	switch m.state {
	case syncStateRunning:
		return "Running, please wait"
	case syncStateResult:
		return "Esc: back"
	}

	return "Navigate form | Esc: back"
}

func (m SyncModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		if m.state != syncStateRunning {
			return m, Back
		}

		return m, nil
	}

	switch msg := msg.(type) {
	case syncDoneMsg:
		m.state = syncStateResult
		m.summary = msg.summary
		m.err = msg.err
		return m, nil
	}

	if m.state != syncStateSetup {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.form.GetBool("confirm") {
		return m, Back
	}

	m.state = syncStateRunning

	return m, m.runCmd()
}

func (m SyncModel) View() string {
	switch m.state {
	case syncStateRunning:
		return lipgloss.NewStyle().Padding(2).Render("Reconciling, this can take a while...")
	case syncStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
				"Sync failed: %v\n\nFound: %d | Synced: %d | Errors: %d",
				m.err, m.summary.Found, m.summary.Synced, m.summary.Errors,
			))
		}

		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
			"Sync completed.\n\nFound: %d | Synced: %d | Errors: %d",
			m.summary.Found, m.summary.Synced, m.summary.Errors,
		))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render("Run Sync\n\n" + m.form.View())
}

// Messages

type syncDoneMsg struct {
	summary reconcile.Summary
	err     error
}

func (m SyncModel) runCmd() tea.Cmd {
	fromStore := m.form.GetBool("mode")

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		run := m.engine.Run
		if fromStore {
			run = m.engine.RecoverFromStore
		}

		summary, err := run(ctx)
		return syncDoneMsg{summary: summary, err: err}
	}
}
