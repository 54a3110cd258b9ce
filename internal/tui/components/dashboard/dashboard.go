// Package dashboard renders the progress overview: greeting, today's count,
// streak, the weekly bars and the wellness log.
package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/progress"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/wellness"
)

const barHeight = 8

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 2)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	lateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	todayStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Data is everything the dashboard shows.
type Data struct {
	Now      time.Time
	UserName string
	Snapshot progress.Snapshot
	Stats    wellness.Stats
	Recent   []progress.Recent
}

func View(d Data) string {
	header := titleStyle.Render(fmt.Sprintf("%s, %s!", utils.Greeting(d.Now), d.UserName))

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Today", fmt.Sprintf("%d/%d", d.Snapshot.Daily.CompletedCount, d.Snapshot.Daily.TotalCount)),
		card("Streak", fmt.Sprintf("%d %s", d.Snapshot.Streak, plural(d.Snapshot.Streak, "day", "days"))),
		card("Sleep", amount(d.Stats.SleepHours, "h")),
		card("Meditation", amount(d.Stats.MeditationMinutes, "min")),
	)

	sections := []string{header, "", cards, "", WeekChart(d.Snapshot.Weekly, d.Snapshot.Today)}
	if recent := RecentList(d.Recent, 5); recent != "" {
		sections = append(sections, "", recent)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func card(label, value string) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render(label), valueStyle.Render(value)))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func amount(v *float64, unit string) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + unit
}

// Column returns the filled height of a bar for ratio.
func Column(ratio float64, height int) int {
	if ratio <= 0 {
		return 0
	}
	if ratio >= 1 {
		return height
	}
	filled := int(ratio*float64(height) + 0.5)
	if filled == 0 {
		filled = 1
	}
	return filled
}

// WeekChart draws one vertical bar per day, Sunday first.
func WeekChart(week []progress.DayProgress, today string) string {
	cols := make([]string, len(week))
	for i, d := range week {
		filled := Column(d.Progress, barHeight)

		var rows []string
		if d.LateCompletions > 0 {
			rows = append(rows, lateStyle.Render(fmt.Sprintf("%d!", d.LateCompletions)))
		} else {
			rows = append(rows, "  ")
		}
		for r := barHeight; r > 0; r-- {
			if r <= filled {
				rows = append(rows, barStyle.Render("██"))
			} else {
				rows = append(rows, emptyStyle.Render("░░"))
			}
		}

		label := d.Day[:2]
		if d.Date == today {
			label = todayStyle.Render(label)
		}
		rows = append(rows, label)
		cols[i] = lipgloss.NewStyle().PaddingRight(1).Render(lipgloss.JoinVertical(lipgloss.Center, rows...))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("This week"),
		lipgloss.JoinHorizontal(lipgloss.Bottom, cols...),
	)
}

// RecentList shows the last n habits with a completion, newest last.
func RecentList(recent []progress.Recent, n int) string {
	if len(recent) == 0 {
		return ""
	}
	if len(recent) > n {
		recent = recent[len(recent)-n:]
	}

	lines := []string{labelStyle.Render("Recently completed")}
	for _, r := range recent {
		line := fmt.Sprintf("%s  %s", r.Last.CompletedDate, r.Habit.Name)
		if r.Last.IsLate {
			line += lateStyle.Render(" (late)")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
