package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/tui/components/dashboard"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateDashboard:
		content = docStyle.Render(dashboard.View(m.dashboardData()))
	case StateHabits:
		content = docStyle.Render(m.habitsModel.View())
	case StateAddHabit:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	var status string
	if m.status != "" {
		status = statusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		status,
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Today", "Habits"} {
		active := m.state == SessionState(i) ||
			(SessionState(i) == StateHabits && (m.state == StateAddHabit || m.state == StateConfirmDelete))
		if active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewConfirmDelete() string {
	name := m.habitToDeleteID
	if h, err := m.store.Get(m.habitToDeleteID); err == nil {
		name = h.Name
	}

	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete \""+name+"\" and its history?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
