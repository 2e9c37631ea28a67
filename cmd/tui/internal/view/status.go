package view

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/viaconta/nfsync/internal/syncrun"
)

type StatusModel struct {
	CommonModel
	runService *syncrun.Service

	run     *syncrun.Run
	loading bool
	err     error
}

func NewStatusModel(runSvc *syncrun.Service) StatusModel {
	return StatusModel{runService: runSvc, loading: true}
}

func (m StatusModel) Title() string { return "Sync Status" }

func (m StatusModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m StatusModel) Init() tea.Cmd {
	return m.loadRunCmd()
}

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadRunMsg:
		m.loading = false
		m.run = msg.run
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadRunCmd()
		}
	}

	return m, nil
}

func (m StatusModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.loading {
		return style.Render("Loading...")
	}

	if m.err != nil {
		if errors.Is(m.err, syncrun.ErrNoRuns) {
			return style.Render("Never synced.")
		}

		return style.Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := fmt.Sprintf(
		"Last run: %s\n\nStarted:  %s\nFinished: %s\nFound:    %d\nSynced:   %d",
		m.run.Outcome,
		m.run.StartedAt.Format("2006-01-02 15:04:05"),
		m.run.FinishedAt.Format("2006-01-02 15:04:05"),
		m.run.NotesFound,
		m.run.NotesSynced,
	)

	if m.run.ErrorSummary != "" {
		content += "\nErrors:   " + m.run.ErrorSummary
	}

	return style.Render(content)
}

// Messages

type loadRunMsg struct {
	run *syncrun.Run
	err error
}

func (m StatusModel) loadRunCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		run, err := m.runService.Latest(ctx)
		return loadRunMsg{run: run, err: err}
	}
}
