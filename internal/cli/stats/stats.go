package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/progress"
	"github.com/julianstephens/habitual/internal/schedule"
	"github.com/julianstephens/habitual/internal/utils"
)

const barWidth = 20

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	name, err := ctx.Wellness.UserName()
	if err != nil {
		return err
	}

	today := ctx.Today()
	day := utils.FormatDate(today)
	snap := ctx.Tracker.Snapshot()

	ctx.Printf("%s, %s!\n", utils.Greeting(today), name)
	ctx.Printf("%s  %d/%d habits done  streak %d\n\n", day, snap.Daily.CompletedCount, snap.Daily.TotalCount, snap.Streak)

	due := 0
	for _, h := range ctx.Habits.Habits() {
		if !schedule.Includes(h.Frequency, today.Weekday()) && !h.CompletedOn(day) {
			continue
		}
		due++
		check := "[ ]"
		if h.CompletedOn(day) {
			check = "[x]"
		}
		ctx.Printf("%s %s\n", check, h.Name)
	}
	if due == 0 {
		ctx.Println("Nothing scheduled today.")
	}

	stats, err := ctx.Wellness.Stats()
	if err != nil {
		return err
	}
	ctx.Println()
	ctx.Printf("Sleep:      %s\n", formatAmount(stats.SleepHours, "hours"))
	ctx.Printf("Meditation: %s\n", formatAmount(stats.MeditationMinutes, "minutes"))
	return nil
}

func formatAmount(v *float64, unit string) string {
	if v == nil {
		return "not logged"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + " " + unit
}

type WeekCmd struct{}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	snap := ctx.Tracker.Snapshot()
	for _, d := range snap.Weekly {
		marker := " "
		if d.Date == snap.Today {
			marker = ">"
		}
		line := fmt.Sprintf("%s %-3s %s  %s %3.0f%%", marker, d.Day[:3], d.Date[5:], Bar(d.Progress, barWidth), d.Progress*100)
		if d.LateCompletions > 0 {
			line += fmt.Sprintf("  (%d late)", d.LateCompletions)
		}
		ctx.Println(line)
	}
	return nil
}

// Bar renders ratio in [0,1] as a fixed-width block bar.
func Bar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

type StreakCmd struct {
	Recent int `help:"Number of recently completed habits to list." default:"5"`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	snap := ctx.Tracker.Snapshot()
	unit := "days"
	if snap.Streak == 1 {
		unit = "day"
	}
	ctx.Printf("Current streak: %d %s\n", snap.Streak, unit)

	recent := progress.RecentCompletions(ctx.Habits.Habits())
	if len(recent) == 0 || c.Recent <= 0 {
		return nil
	}

	ctx.Println()
	ctx.Println("Recently completed:")
	if len(recent) > c.Recent {
		recent = recent[len(recent)-c.Recent:]
	}
	for _, r := range recent {
		late := ""
		if r.Last.IsLate {
			late = fmt.Sprintf(" (late, scheduled %s)", r.Last.ScheduledDate)
		}
		ctx.Printf("  %s  %s%s\n", r.Last.CompletedDate, r.Habit.Name, late)
	}
	return nil
}

type SleepCmd struct {
	Hours float64 `arg:"" help:"Hours slept."`
}

func (c *SleepCmd) Run(ctx *cli.Context) error {
	if err := ctx.Wellness.LogSleep(c.Hours); err != nil {
		return err
	}
	ctx.Printf("Logged %s\n", formatAmount(&c.Hours, "hours of sleep"))
	return nil
}

type MeditateCmd struct {
	Minutes float64 `arg:"" help:"Minutes meditated."`
}

func (c *MeditateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Wellness.LogMeditation(c.Minutes); err != nil {
		return err
	}
	ctx.Printf("Logged %s\n", formatAmount(&c.Minutes, "minutes of meditation"))
	return nil
}

type NameCmd struct {
	Name string `arg:"" optional:"" help:"New display name. Omit to show the current one."`
}

func (c *NameCmd) Run(ctx *cli.Context) error {
	if c.Name == "" {
		name, err := ctx.Wellness.UserName()
		if err != nil {
			return err
		}
		ctx.Println(name)
		return nil
	}

	if err := ctx.Wellness.SetUserName(c.Name); err != nil {
		return err
	}
	ctx.Println("Your name has been updated!")
	return nil
}

