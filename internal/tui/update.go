package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/tui/components/habits"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habitsModel.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tickMsg:
		m.tracker.Refresh()
		m.refresh()
		return m, tick()

	case habits.AddHabitMsg:
		m.habitForm = &HabitFormModel{}
		m.form = NewHabitForm(m.habitForm)
		m.state = StateAddHabit
		return m, m.form.Init()

	case habits.CompleteHabitMsg:
		if _, err := m.store.Complete(msg.ID, m.now()); err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
		}
		m.refresh()
		return m, nil

	case habits.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.state = StateConfirmDelete
		return m, nil
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		}
	}

	if m.state == StateHabits {
		var cmd tea.Cmd
		m.habitsModel, cmd = m.habitsModel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateHabits
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.submitHabitForm(cmd)
	case huh.StateAborted:
		m.state = StateHabits
	}
	return m, cmd
}

// submitHabitForm creates the habit from the completed form. On failure a
// fresh form is built over the same values so the user can correct them.
func (m Model) submitHabitForm(cmd tea.Cmd) (Model, tea.Cmd) {
	if _, err := m.store.Create(m.habitForm.Draft()); err != nil {
		m.status = err.Error()
		m.form = NewHabitForm(m.habitForm)
		return m, m.form.Init()
	}
	m.status = ""
	m.refresh()
	m.state = StateHabits
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(km, m.keys.Confirm):
		if err := m.store.Delete(m.habitToDeleteID); err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
		}
		m.habitToDeleteID = ""
		m.refresh()
		m.state = StateHabits
	case key.Matches(km, m.keys.Cancel):
		m.habitToDeleteID = ""
		m.state = StateHabits
	}
	return m, nil
}
