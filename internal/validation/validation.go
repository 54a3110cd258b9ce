// Package validation checks a persisted habit collection for records that
// break the collection's invariants. It never modifies habits.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/schedule"
	"github.com/julianstephens/habitual/internal/utils"
)

// ConflictType represents the kind of problem found.
type ConflictType string

const (
	ConflictMissingID           ConflictType = "missing_id"
	ConflictDuplicateID         ConflictType = "duplicate_id"
	ConflictDuplicateName       ConflictType = "duplicate_habit_name"
	ConflictEmptyFrequency      ConflictType = "empty_frequency"
	ConflictInvalidWeekday      ConflictType = "invalid_weekday"
	ConflictInvalidReminder     ConflictType = "invalid_reminder"
	ConflictInvalidDate         ConflictType = "invalid_date"
	ConflictOffSchedule         ConflictType = "off_schedule"
	ConflictDuplicateCompletion ConflictType = "duplicate_completion"
	ConflictLateFlagMismatch    ConflictType = "late_flag_mismatch"
	ConflictCompletedEarly      ConflictType = "completed_before_scheduled"
)

// Conflict is one detected problem.
type Conflict struct {
	Type        ConflictType
	Description string
	HabitID     string
	Date        string // YYYY-MM-DD, if applicable
}

// Result contains all detected conflicts.
type Result struct {
	Conflicts []Conflict
}

func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts.
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

func (r *Result) add(t ConflictType, habitID, date, format string, args ...interface{}) {
	r.Conflicts = append(r.Conflicts, Conflict{
		Type:        t,
		Description: fmt.Sprintf(format, args...),
		HabitID:     habitID,
		Date:        date,
	})
}

// ValidateHabits checks every habit and its completion history.
func ValidateHabits(habits []models.Habit) Result {
	var result Result

	ids := make(map[string]bool, len(habits))
	names := make(map[string]string, len(habits))
	for _, h := range habits {
		switch {
		case h.ID == "":
			result.add(ConflictMissingID, "", "", "habit %q has no id", h.Name)
		case ids[h.ID]:
			result.add(ConflictDuplicateID, h.ID, "", "habit id %s is used more than once", h.ID)
		}
		ids[h.ID] = true

		key := strings.ToLower(strings.TrimSpace(h.Name))
		if other, ok := names[key]; ok {
			result.add(ConflictDuplicateName, h.ID, "", "habits %s and %s share the name %q", other, h.ID, h.Name)
		} else {
			names[key] = h.ID
		}

		validateHabit(&result, h)
	}
	return result
}

func validateHabit(result *Result, h models.Habit) {
	if len(h.Frequency) == 0 {
		result.add(ConflictEmptyFrequency, h.ID, "", "habit %q is not scheduled on any day", h.Name)
	}
	for _, d := range h.Frequency {
		if _, err := schedule.ParseWeekday(d); err != nil {
			result.add(ConflictInvalidWeekday, h.ID, "", "habit %q has unknown weekday %q", h.Name, d)
		}
	}
	if h.ReminderTime != nil && !utils.ValidateTimeFormat(*h.ReminderTime) {
		result.add(ConflictInvalidReminder, h.ID, "", "habit %q has reminder %q, expected %s", h.Name, *h.ReminderTime, constants.TimeFormat)
	}

	seen := make(map[string]bool, len(h.CompletedDates))
	for _, e := range h.CompletedDates {
		scheduled, errS := time.Parse(constants.DateFormat, e.ScheduledDate)
		completed, errC := time.Parse(constants.DateFormat, e.CompletedDate)
		if errS != nil || errC != nil {
			result.add(ConflictInvalidDate, h.ID, e.CompletedDate,
				"habit %q has a completion with invalid dates (scheduled %q, completed %q)", h.Name, e.ScheduledDate, e.CompletedDate)
			continue
		}

		if seen[e.CompletedDate] {
			result.add(ConflictDuplicateCompletion, h.ID, e.CompletedDate, "habit %q is completed twice on %s", h.Name, e.CompletedDate)
		}
		seen[e.CompletedDate] = true

		if len(h.Frequency) > 0 && !schedule.Includes(h.Frequency, scheduled.Weekday()) {
			result.add(ConflictOffSchedule, h.ID, e.ScheduledDate,
				"habit %q has a completion scheduled for %s (%s), which is not in its frequency", h.Name, e.ScheduledDate, scheduled.Weekday())
		}
		if e.IsLate != (e.ScheduledDate != e.CompletedDate) {
			result.add(ConflictLateFlagMismatch, h.ID, e.CompletedDate, "habit %q has a wrong late flag on %s", h.Name, e.CompletedDate)
		}
		if completed.Before(scheduled) {
			result.add(ConflictCompletedEarly, h.ID, e.CompletedDate,
				"habit %q was completed on %s before its scheduled date %s", h.Name, e.CompletedDate, e.ScheduledDate)
		}
	}
}
