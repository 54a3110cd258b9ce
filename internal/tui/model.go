package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	habitstore "github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/progress"
	"github.com/julianstephens/habitual/internal/tui/components/dashboard"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
	"github.com/julianstephens/habitual/internal/wellness"
)

type SessionState int

const (
	StateDashboard SessionState = iota
	StateHabits
	StateAddHabit
	StateConfirmDelete
)

// tabCount is the number of states reachable with tab.
const tabCount = 2

type tickMsg time.Time

type Model struct {
	store    *habitstore.Store
	tracker  *progress.Tracker
	wellness *wellness.Log
	now      func() time.Time

	state           SessionState
	keys            KeyMap
	help            help.Model
	habitsModel     habits.Model
	form            *huh.Form
	habitForm       *HabitFormModel
	habitToDeleteID string
	status          string
	quitting        bool
	width           int
	height          int
}

func NewModel(store *habitstore.Store, tracker *progress.Tracker, log *wellness.Log, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	return Model{
		store:       store,
		tracker:     tracker,
		wellness:    log,
		now:         now,
		state:       StateDashboard,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habits.New(store.Habits(), now(), 0, 0),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// tick refreshes derived progress once a minute so the view rolls over at midnight.
func tick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) refresh() {
	m.habitsModel.SetHabits(m.store.Habits(), m.now())
}

func (m Model) dashboardData() dashboard.Data {
	d := dashboard.Data{
		Now:      m.now(),
		Snapshot: m.tracker.Snapshot(),
		Recent:   progress.RecentCompletions(m.store.Habits()),
	}

	name, err := m.wellness.UserName()
	if err != nil {
		logger.Warn("Failed to load user name", "error", err)
	}
	d.UserName = name

	stats, err := m.wellness.Stats()
	if err != nil {
		logger.Warn("Failed to load wellness stats", "error", err)
	}
	d.Stats = stats
	return d
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateHabits {
		hk := habits.DefaultKeyMap()
		keys = append(keys, hk.Add, hk.Done, hk.Delete)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	if m.state == StateHabits {
		hk := habits.DefaultKeyMap()
		actions = []key.Binding{hk.Add, hk.Done, hk.Delete}
	}
	return [][]key.Binding{global, navigation, actions}
}
