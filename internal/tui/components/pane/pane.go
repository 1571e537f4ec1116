// Package pane is a scrollable block of pre-rendered text.
package pane

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type Model struct {
	viewport viewport.Model
	empty    string
	content  string
}

// New returns a pane that shows empty until content is set.
func New(empty string, width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		empty:    empty,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.content == "" {
		return m.empty
	}
	return m.viewport.View()
}

// SetContent replaces the text, keeping the scroll offset when possible.
func (m *Model) SetContent(content string) {
	m.content = content
	m.viewport.SetContent(content)
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
}
