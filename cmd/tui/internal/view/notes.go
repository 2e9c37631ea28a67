package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/viaconta/nfsync/internal/note"
)

type NotesModel struct {
	CommonModel
	noteService *note.Service

	table table.Model
	notes []*note.Note

	// Filter cycling
	monthFilterIdx int

	filter  note.ListFilter
	loading bool
	err     error
}

func NewNotesModel(noteSvc *note.Service) NotesModel {
	columns := []table.Column{
		{Title: "Emissão", Width: 12},
		{Title: "Número", Width: 12},
		{Title: "Prestador", Width: 20},
		{Title: "Valor", Width: 14},
		{Title: "Sync", Width: 8},
		{Title: "Status", Width: 10},
		{Title: "PDF", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return NotesModel{
		noteService: noteSvc,
		table:       t,
		filter:      note.ListFilter{},
	}
}

func (m NotesModel) Title() string { return "Service Notes" }

func (m NotesModel) ShortHelp() string {
	return "Esc: back | d: month filter | r: refresh"
}

func (m NotesModel) Init() tea.Cmd {
	return m.loadNotesCmd()
}

func (m NotesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadNotesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.notes = msg.notes
		m.refreshTable()
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadNotesCmd()
		case "d":
			m.monthFilterIdx = (m.monthFilterIdx + 1) % 3
			m.applyFilter()
			return m, m.loadNotesCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m NotesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading notes...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	dateLabels := []string{"All Time", "This Month", "Last Month"}

	header := fmt.Sprintf(
		"%d notes | [d] Period: %s",
		len(m.notes),
		activeStyle(dateLabels[m.monthFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *NotesModel) applyFilter() {
	now := time.Now()

	switch m.monthFilterIdx {
	case 1:
		year, month := now.Year(), int(now.Month())
		m.filter.Year = &year
		m.filter.Month = &month
	case 2:
		last := now.AddDate(0, -1, 0)
		year, month := last.Year(), int(last.Month())
		m.filter.Year = &year
		m.filter.Month = &month
	default:
		m.filter.Year = nil
		m.filter.Month = nil
	}
}

func (m *NotesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.notes))
	for _, n := range m.notes {
		rows = append(rows, table.Row{
			FormatDate(n.IssueDate),
			n.Number,
			n.IssuerCNPJ,
			FormatValue(n.TotalValue),
			string(n.SyncStatus),
			string(n.Status),
			n.PDFURL,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadNotesMsg struct {
	notes []*note.Note
	err   error
}

func (m NotesModel) loadNotesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		notes, err := m.noteService.List(ctx, m.filter)
		return loadNotesMsg{notes: notes, err: err}
	}
}
