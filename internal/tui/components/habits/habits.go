package habits

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/schedule"
	"github.com/julianstephens/habitual/internal/utils"
)

type AddHabitMsg struct{}

type CompleteHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type Item struct {
	Habit models.Habit
	Done  bool // completed today
	Due   bool // scheduled today
}

func (i Item) Title() string {
	if i.Done {
		return "✓ " + i.Habit.Name
	}
	return "○ " + i.Habit.Name
}

func (i Item) Description() string {
	status := "not scheduled today"
	switch {
	case i.Done:
		status = "completed today"
	case i.Due:
		status = "due today"
	}

	desc := fmt.Sprintf("%s · %s", schedule.Format(i.Habit.Frequency), status)
	if last, ok := i.Habit.LastCompletion(); ok && last.IsLate {
		desc += " · last done late"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add    key.Binding
	Done   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Done: key.NewBinding(
			key.WithKeys("m", " "),
			key.WithHelp("m/space", "mark done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.Habit, today time.Time, width, height int) Model {
	l := list.New(Items(habits, today), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Done, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Done, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

// Items builds list rows for the given day.
func Items(habits []models.Habit, today time.Time) []list.Item {
	day := utils.FormatDate(today)
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{
			Habit: h,
			Done:  h.CompletedOn(day),
			Due:   schedule.Includes(h.Frequency, today.Weekday()),
		}
	}
	return items
}

func (m *Model) SetHabits(habits []models.Habit, today time.Time) {
	m.list.SetItems(Items(habits, today))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Done):
			if i, ok := m.list.SelectedItem().(Item); ok && !i.Done {
				return m, func() tea.Msg { return CompleteHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Selected returns the highlighted habit, if any.
func (m Model) Selected() (models.Habit, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Habit, ok
}
