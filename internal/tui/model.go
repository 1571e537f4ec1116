package tui

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daybook/internal/analytics"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/metrics"
	"github.com/julianstephens/daybook/internal/tui/components/habitlist"
	"github.com/julianstephens/daybook/internal/tui/components/pane"
)

type Tab int

const (
	TabToday Tab = iota
	TabHabits
	TabMood
	TabSeries
)

var tabTitles = []string{"Today", "Habits", "Mood", "Series"}

const tabCount = Tab(4)

// Options wires the dashboard to the journal.
type Options struct {
	Source analytics.Source
	// Reload re-reads the store before each refresh. Optional.
	Reload func() error
	// Complete records a completion for habitID on date. Optional; the
	// complete key is ignored without it.
	Complete func(habitID, date string) error
	UserID   int64
	Window   metrics.Window
	Now      func() time.Time
	// Changes delivers a value whenever the store changed on disk.
	Changes <-chan struct{}
}

type loadedMsg struct {
	dashboard analytics.Dashboard
	report    analytics.Report
	at        time.Time
	err       error
}

type storeChangedMsg struct{}

type Model struct {
	opts      Options
	mu        *sync.Mutex
	tab       Tab
	window    metrics.Window
	keys      KeyMap
	help      help.Model
	habits    habitlist.Model
	today     pane.Model
	mood      pane.Model
	series    pane.Model
	dashboard analytics.Dashboard
	report    analytics.Report
	loadedAt  time.Time
	status    string
	err       error
	quitting  bool
	width     int
	height    int
}

func NewModel(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	window := opts.Window
	if !window.Valid() {
		window = metrics.WindowWeek
	}
	return Model{
		opts:   opts,
		mu:     &sync.Mutex{},
		tab:    TabToday,
		window: window,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		habits: habitlist.New(nil, 0, 0),
		today:  pane.New("Loading...", 0, 0),
		mood:   pane.New("Loading...", 0, 0),
		series: pane.New("Loading...", 0, 0),
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Window, m.keys.Reload, m.keys.Quit, m.keys.Help}
	if m.tab == TabHabits && m.opts.Complete != nil {
		keys = append(keys, m.keys.Complete)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right}
	actions := []key.Binding{m.keys.Window, m.keys.Reload}
	if m.tab == TabHabits && m.opts.Complete != nil {
		actions = append(actions, m.keys.Complete)
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), waitForChange(m.opts.Changes))
}

// load refreshes the dashboard and the report in the background.
func (m Model) load() tea.Cmd {
	opts, mu, window := m.opts, m.mu, m.window
	return func() tea.Msg {
		mu.Lock()
		defer mu.Unlock()
		return fetch(opts, window)
	}
}

func fetch(opts Options, window metrics.Window) loadedMsg {
	asOf := opts.Now()
	if opts.Reload != nil {
		if err := opts.Reload(); err != nil {
			return loadedMsg{err: err, at: asOf}
		}
	}
	dashboard, err := analytics.BuildDashboard(opts.Source, opts.UserID, asOf)
	if err != nil {
		return loadedMsg{err: err, at: asOf}
	}
	report, err := analytics.BuildReport(opts.Source, opts.UserID, window, asOf)
	if err != nil {
		return loadedMsg{err: err, at: asOf}
	}
	return loadedMsg{dashboard: dashboard, report: report, at: asOf}
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// complete records today's completion for habitID.
func (m Model) complete(habitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts.Complete(habitID, m.opts.Now().Format(constants.DateFormat))
}
