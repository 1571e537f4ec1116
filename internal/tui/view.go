package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daybook/internal/render"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.tab {
	case TabToday:
		content = m.today.View()
	case TabHabits:
		content = m.habits.View()
	case TabMood:
		content = m.mood.View()
	case TabSeries:
		content = m.series.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.tab == Tab(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	tabs = append(tabs, windowStyle.Render(fmt.Sprintf("window %s", m.window)))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return dangerStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.loadedAt.IsZero() {
		return statusStyle.Render("loading...")
	}
	line := fmt.Sprintf("updated %s", render.Relative(m.loadedAt))
	if m.status != "" {
		line = m.status + " | " + line
	}
	return statusStyle.Render(line)
}
