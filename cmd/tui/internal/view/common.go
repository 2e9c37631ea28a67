package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// CommonModel carries the terminal size every subview needs for layout.
type CommonModel struct {
	Width  int
	Height int
}

// BackMsg tells the root model to return to the menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
