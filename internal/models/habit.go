package models

import "time"

// Habit is a recurring task scheduled on specific weekdays.
type Habit struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Frequency      []string          `json:"frequency"`
	ReminderTime   *string           `json:"reminderTime,omitempty"` // HH:MM
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
	CompletedDates []CompletionEvent `json:"completedDates"`
}

// CompletionEvent records that a habit was marked done, and for which scheduled occurrence.
type CompletionEvent struct {
	ScheduledDate string `json:"scheduledDate"` // YYYY-MM-DD
	CompletedDate string `json:"completedDate"` // YYYY-MM-DD
	IsLate        bool   `json:"isLate"`
}

// HabitDraft holds the user-supplied fields of a habit before it is created.
type HabitDraft struct {
	Name         string
	Description  string
	Frequency    []string
	ReminderTime *string
}

// CompletedOn reports whether the habit has an event with the given completedDate.
func (h Habit) CompletedOn(day string) bool {
	for _, e := range h.CompletedDates {
		if e.CompletedDate == day {
			return true
		}
	}
	return false
}

// HasLateCompletion reports whether any event of the habit was completed late.
func (h Habit) HasLateCompletion() bool {
	for _, e := range h.CompletedDates {
		if e.CompletedDate != e.ScheduledDate {
			return true
		}
	}
	return false
}

// LastCompletion returns the most recently appended completion event.
func (h Habit) LastCompletion() (CompletionEvent, bool) {
	if len(h.CompletedDates) == 0 {
		return CompletionEvent{}, false
	}
	return h.CompletedDates[len(h.CompletedDates)-1], true
}

// Clone returns a deep copy so callers cannot mutate store-owned slices.
func (h Habit) Clone() Habit {
	c := h
	c.Frequency = append([]string(nil), h.Frequency...)
	c.CompletedDates = append([]CompletionEvent{}, h.CompletedDates...)
	if h.ReminderTime != nil {
		rt := *h.ReminderTime
		c.ReminderTime = &rt
	}
	return c
}
