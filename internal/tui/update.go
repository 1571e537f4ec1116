package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/render"
	"github.com/julianstephens/daybook/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case loadedMsg:
		m.loadedAt = msg.at
		m.err = msg.err
		if msg.err != nil {
			logger.Warn("dashboard refresh failed", "err", msg.err)
			return m, nil
		}
		m.dashboard = msg.dashboard
		m.report = msg.report
		m.refreshPanes()
		return m, nil

	case storeChangedMsg:
		m.status = "store changed, reloaded"
		return m, tea.Batch(m.load(), waitForChange(m.opts.Changes))

	case habitlist.CompleteHabitMsg:
		if m.opts.Complete == nil {
			return m, nil
		}
		if err := m.complete(msg.ID); err != nil {
			m.err = err
			return m, nil
		}
		m.status = "marked done for today"
		return m, m.load()

	case tea.KeyMsg:
		// Let the filter input have every key while it is open.
		if m.tab == TabHabits && m.habits.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.resize()
			return m, nil
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
			m.tab = (m.tab + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Left):
			m.tab = (m.tab - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Window):
			m.window = m.window.Next()
			m.status = fmt.Sprintf("window %s", m.window)
			return m, m.load()
		case key.Matches(msg, m.keys.Reload):
			m.status = "reloaded"
			return m, m.load()
		}
	}

	switch m.tab {
	case TabToday:
		m.today, cmd = m.today.Update(msg)
	case TabHabits:
		m.habits, cmd = m.habits.Update(msg)
	case TabMood:
		m.mood, cmd = m.mood.Update(msg)
	case TabSeries:
		m.series, cmd = m.series.Update(msg)
	}
	return m, cmd
}

func (m *Model) refreshPanes() {
	habits := make([]models.Habit, len(m.report.Habits))
	for i, h := range m.report.Habits {
		habits[i] = h.Habit
	}
	m.habits.SetHabits(m.report.Habits)
	m.today.SetContent(render.Dashboard(m.dashboard))
	m.mood.SetContent(render.DayRatings(m.report.DayRatings, m.report.Window))
	m.series.SetContent(render.Series(m.report.Series, habits))
}

func (m *Model) resize() {
	// Tabs, status line and help take the rest.
	chrome := 4
	if m.help.ShowAll {
		chrome += 3
	}
	width, height := m.width-4, max(m.height-chrome-2, 1)
	m.habits.SetSize(width, height)
	m.today.SetSize(width, height)
	m.mood.SetSize(width, height)
	m.series.SetSize(width, height)
}
