package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/schedule"
	"github.com/julianstephens/habitual/internal/utils"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Done   HabitDoneCmd   `cmd:"" help:"Mark a habit as done for today."`
	Show   HabitShowCmd   `cmd:"" help:"Show a habit and its recent history."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Days        string `help:"Comma-separated weekdays (e.g. mon,wed,fri) or 'daily'." default:"daily"`
	Description string `short:"d" help:"Optional description."`
	Reminder    string `help:"Optional reminder time (HH:MM)."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	draft := models.HabitDraft{
		Name:        c.Name,
		Description: c.Description,
		Frequency:   parseDays(c.Days),
	}
	if c.Reminder != "" {
		draft.ReminderTime = &c.Reminder
	}

	habit, err := ctx.Habits.Create(draft)
	if err != nil {
		return err
	}

	ctx.Printf("Added habit: %s (%s)\n", habit.Name, schedule.Format(habit.Frequency))
	return nil
}

func parseDays(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "daily") {
		days := make([]string, 7)
		for i := range days {
			days[i] = time.Weekday(i).String()
		}
		return days
	}
	return strings.Split(s, ",")
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits := ctx.Habits.Habits()
	if len(habits) == 0 {
		ctx.Println("No habits found. Add one with 'habitual habit add'.")
		return nil
	}

	today := ctx.Today()
	day := utils.FormatDate(today)

	width := len("NAME")
	for _, h := range habits {
		if len(h.Name) > width {
			width = len(h.Name)
		}
	}

	ctx.Printf("%-*s  %-20s  %-6s  %s\n", width, "NAME", "SCHEDULE", "TODAY", "LAST DONE")
	for _, h := range habits {
		status := "-"
		switch {
		case h.CompletedOn(day):
			status = "done"
		case schedule.Includes(h.Frequency, today.Weekday()):
			status = "due"
		}

		last := "never"
		if e, ok := h.LastCompletion(); ok {
			last = e.CompletedDate
			if e.IsLate {
				last += " (late)"
			}
		}
		ctx.Printf("%-*s  %-20s  %-6s  %s\n", width, h.Name, schedule.Format(h.Frequency), status, last)
	}
	return nil
}

type HabitDoneCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Date  string `help:"Day to record in YYYY-MM-DD format (default: today)."`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Habits.Find(c.Habit)
	if err != nil {
		return err
	}

	day := ctx.Today()
	if c.Date != "" {
		if day, err = utils.ParseDateInLocation(c.Date, day.Location()); err != nil {
			return err
		}
	}

	if habit.CompletedOn(utils.FormatDate(day)) {
		ctx.Printf("%s is already done for %s\n", habit.Name, utils.FormatDate(day))
		return nil
	}

	event, err := ctx.Habits.Complete(habit.ID, day)
	if err != nil {
		return err
	}

	if event.IsLate {
		ctx.Printf("Completed %s late (scheduled for %s)\n", habit.Name, event.ScheduledDate)
	} else {
		ctx.Printf("Completed %s for %s\n", habit.Name, event.CompletedDate)
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Days  int    `help:"Number of days of history to show." default:"14"`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	if c.Days <= 0 {
		return fmt.Errorf("days must be positive")
	}

	habit, err := ctx.Habits.Find(c.Habit)
	if err != nil {
		return err
	}

	ctx.Printf("%s\n", habit.Name)
	if habit.Description != "" {
		ctx.Printf("  %s\n", habit.Description)
	}
	ctx.Printf("  ID:        %s\n", habit.ID)
	ctx.Printf("  Schedule:  %s\n", strings.Join(habit.Frequency, ", "))
	if habit.ReminderTime != nil {
		ctx.Printf("  Reminder:  %s\n", *habit.ReminderTime)
	}
	ctx.Printf("  Created:   %s\n", habit.CreatedAt.Local().Format(constants.DateFormat))
	ctx.Printf("  Completed: %d times\n", len(habit.CompletedDates))
	ctx.Println()

	// One column per day, oldest first: x on time, L late, . missed, blank when not scheduled.
	end := utils.StartOfDay(ctx.Today())
	start := utils.AddDays(end, -(c.Days - 1))

	for i := 0; i < c.Days; i++ {
		ctx.Printf(" %5s", utils.AddDays(start, i).Format("01/02"))
	}
	ctx.Println()
	ctx.Println(strings.Repeat("-", 6*c.Days))

	for i := 0; i < c.Days; i++ {
		day := utils.AddDays(start, i)
		ctx.Printf("  %s   ", marker(habit, day))
	}
	ctx.Println()
	return nil
}

func marker(h models.Habit, day time.Time) string {
	ds := utils.FormatDate(day)
	for _, e := range h.CompletedDates {
		if e.CompletedDate == ds {
			if e.IsLate {
				return "L"
			}
			return "x"
		}
	}
	if schedule.Includes(h.Frequency, day.Weekday()) {
		return "."
	}
	return " "
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Habits.Find(c.Habit)
	if err != nil {
		return err
	}

	if err := ctx.Habits.Delete(habit.ID); err != nil {
		return err
	}

	ctx.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}
