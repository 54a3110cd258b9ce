package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

type HabitFormModel struct {
	Name        string
	Description string
	Days        []string
	Reminder    string
}

// Draft converts the form values into a habit draft.
func (f *HabitFormModel) Draft() models.HabitDraft {
	draft := models.HabitDraft{
		Name:        f.Name,
		Description: f.Description,
		Frequency:   append([]string(nil), f.Days...),
	}
	if r := strings.TrimSpace(f.Reminder); r != "" {
		draft.ReminderTime = &r
	}
	return draft
}

func NewHabitForm(fm *HabitFormModel) *huh.Form {
	days := make([]huh.Option[string], 7)
	for i := range days {
		name := time.Weekday(i).String()
		days[i] = huh.NewOption(name, name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("please enter a habit name")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
			huh.NewMultiSelect[string]().
				Title("Days").
				Options(days...).
				Value(&fm.Days).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return fmt.Errorf("please select at least one day")
					}
					return nil
				}),
			huh.NewInput().
				Title("Reminder (HH:MM, optional)").
				Value(&fm.Reminder).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s != "" && !utils.ValidateTimeFormat(s) {
						return fmt.Errorf("use HH:MM")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
