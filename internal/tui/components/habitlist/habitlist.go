package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daybook/internal/analytics"
	"github.com/julianstephens/daybook/internal/render"
)

// CompleteHabitMsg asks the parent to record today's completion for ID.
type CompleteHabitMsg struct {
	ID string
}

type Item struct {
	Report analytics.HabitReport
}

func (i Item) Title() string {
	h := i.Report.Habit
	title := fmt.Sprintf("%s %s", h.Name, i.Report.Metrics.Trend.Glyph())
	if !h.IsActive {
		title += " (archived)"
	}
	return title
}

func (i Item) Description() string {
	r := i.Report
	return fmt.Sprintf("%s | rating %s | %d-day streak | %s over 30d | avg %s",
		render.Sparkline(r.Metrics.RecentRatings),
		render.Rating(r.Metrics.CurrentRating),
		r.Summary.Streak,
		render.Percent(r.Summary.CompletionRate),
		render.Rating(r.AverageRating),
	)
}

func (i Item) FilterValue() string { return i.Report.Habit.Name }

type KeyMap struct {
	Complete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "done today"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(reports []analytics.HabitReport, width, height int) Model {
	l := list.New(items(reports), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Complete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Complete}
	}

	return Model{list: l, keys: keys}
}

func items(reports []analytics.HabitReport) []list.Item {
	out := make([]list.Item, len(reports))
	for i, r := range reports {
		out[i] = Item{Report: r}
	}
	return out
}

func (m *Model) SetHabits(reports []analytics.HabitReport) {
	m.list.SetItems(items(reports))
}

// Selected returns the highlighted habit report, if any.
func (m Model) Selected() (analytics.HabitReport, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Report, ok
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		if key.Matches(msg, m.keys.Complete) {
			if i, ok := m.list.SelectedItem().(Item); ok && i.Report.Habit.IsActive {
				return m, func() tea.Msg { return CompleteHabitMsg{ID: i.Report.Habit.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No habits yet.\n  Add one with 'daybook habit add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
