// Package progress derives completion metrics from a snapshot of habits.
// Every function here is pure: the same habits and reference day always
// produce the same result.
package progress

import (
	"sort"
	"time"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/schedule"
	"github.com/julianstephens/habitual/internal/utils"
)

// DailyProgress counts habits completed on a single day.
type DailyProgress struct {
	CompletedCount int `json:"completedCount"`
	TotalCount     int `json:"totalCount"`
}

// DayProgress is one column of the weekly view.
type DayProgress struct {
	Day             string  `json:"day"`  // weekday name
	Date            string  `json:"date"` // YYYY-MM-DD
	Progress        float64 `json:"progress"`
	LateCompletions int     `json:"lateCompletions"`
}

// Snapshot bundles every derived metric for one reference day.
type Snapshot struct {
	Today  string        `json:"today"`
	Daily  DailyProgress `json:"daily"`
	Weekly []DayProgress `json:"weekly"`
	Streak int           `json:"streak"`
}

// Daily counts habits having a completion whose completedDate is today.
func Daily(habits []models.Habit, today time.Time) DailyProgress {
	day := utils.FormatDate(today)
	completed := 0
	for _, h := range habits {
		if h.CompletedOn(day) {
			completed++
		}
	}
	return DailyProgress{CompletedCount: completed, TotalCount: len(habits)}
}

// Weekly returns Sunday..Saturday of today's week. A habit counts toward a
// day when its frequency includes that weekday, and is done for the day when
// any of its events was scheduled for or completed on that date.
// LateCompletions counts done habits that have ever been completed late,
// regardless of which day the late event belongs to.
func Weekly(habits []models.Habit, today time.Time) []DayProgress {
	start := schedule.WeekStart(today)

	week := make([]DayProgress, 7)
	for i := range week {
		date := utils.AddDays(start, i)
		dayString := utils.FormatDate(date)
		weekday := date.Weekday()

		eligible, done, late := 0, 0, 0
		for _, h := range habits {
			if !schedule.Includes(h.Frequency, weekday) {
				continue
			}
			eligible++
			if !touchesDay(h, dayString) {
				continue
			}
			done++
			if h.HasLateCompletion() {
				late++
			}
		}

		var ratio float64
		if eligible > 0 {
			ratio = float64(done) / float64(eligible)
		}
		week[i] = DayProgress{
			Day:             weekday.String(),
			Date:            dayString,
			Progress:        ratio,
			LateCompletions: late,
		}
	}
	return week
}

func touchesDay(h models.Habit, day string) bool {
	for _, e := range h.CompletedDates {
		if e.ScheduledDate == day || e.CompletedDate == day {
			return true
		}
	}
	return false
}

// Streak walks the pooled completion dates of all habits, newest first,
// from today. A date zero or one day before the anchor extends the run and
// moves the anchor to the day before it; any other gap ends the walk.
// Dates are not deduplicated, so a repeated day ends the run at the repeat.
func Streak(habits []models.Habit, today time.Time) int {
	loc := today.Location()

	var pool []time.Time
	for _, h := range habits {
		for _, e := range h.CompletedDates {
			d, err := utils.ParseDateInLocation(e.CompletedDate, loc)
			if err != nil {
				logger.Debug("Skipping unparseable completion date", "habit", h.ID, "date", e.CompletedDate)
				continue
			}
			pool = append(pool, d)
		}
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].After(pool[j]) })

	anchor := utils.StartOfDay(today)
	streak := 0
	for _, d := range pool {
		gap := utils.DaysBetween(anchor, d)
		if gap != 0 && gap != 1 {
			break
		}
		streak++
		anchor = utils.AddDays(d, -1)
	}
	return streak
}

// Compute derives every metric for today.
func Compute(habits []models.Habit, today time.Time) Snapshot {
	return Snapshot{
		Today:  utils.FormatDate(today),
		Daily:  Daily(habits, today),
		Weekly: Weekly(habits, today),
		Streak: Streak(habits, today),
	}
}

// Recent pairs a habit with its most recent completion.
type Recent struct {
	Habit models.Habit
	Last  models.CompletionEvent
}

// RecentCompletions lists habits that have been completed at least once,
// in collection order, with the last event appended to each.
func RecentCompletions(habits []models.Habit) []Recent {
	var out []Recent
	for _, h := range habits {
		if last, ok := h.LastCompletion(); ok {
			out = append(out, Recent{Habit: h, Last: last})
		}
	}
	return out
}
