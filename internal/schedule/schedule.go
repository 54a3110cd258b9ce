// Package schedule maps a habit's weekly frequency onto calendar dates.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/utils"
)

// ErrNoScheduledDay is returned when a frequency names no recognizable weekday.
var ErrNoScheduledDay = errors.New("frequency contains no scheduled weekday")

var dayMap = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts a full or three-letter English weekday name in any case,
// or a number (0=Sunday, 6=Saturday).
func ParseWeekday(s string) (time.Weekday, error) {
	part := strings.TrimSpace(strings.ToLower(s))
	if wd, ok := dayMap[part]; ok {
		return wd, nil
	}
	num, err := strconv.Atoi(part)
	if err == nil && num >= 0 && num <= 6 {
		return time.Weekday(num), nil
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

// NormalizeFrequency turns a list of weekday names into a set of full
// weekday names ordered Sunday through Saturday. Duplicates collapse.
func NormalizeFrequency(days []string) ([]string, error) {
	seen := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		wd, err := ParseWeekday(d)
		if err != nil {
			return nil, err
		}
		seen[wd] = true
	}

	weekdays := make([]time.Weekday, 0, len(seen))
	for wd := range seen {
		weekdays = append(weekdays, wd)
	}
	sort.Slice(weekdays, func(i, j int) bool { return weekdays[i] < weekdays[j] })

	out := make([]string, len(weekdays))
	for i, wd := range weekdays {
		out[i] = wd.String()
	}
	return out, nil
}

// Includes reports whether frequency names the weekday (case-insensitive).
func Includes(frequency []string, wd time.Weekday) bool {
	name := wd.String()
	for _, d := range frequency {
		if strings.EqualFold(strings.TrimSpace(d), name) {
			return true
		}
	}
	return false
}

// MostRecent returns the latest date on or before ref whose weekday is in
// frequency. The walk happens on ref's local calendar, so the result keeps
// ref's location and wall-clock time.
func MostRecent(frequency []string, ref time.Time) (time.Time, error) {
	candidate := ref
	for i := 0; i < 7; i++ {
		if Includes(frequency, candidate.Weekday()) {
			return candidate, nil
		}
		candidate = utils.AddDays(candidate, -1)
	}
	return time.Time{}, ErrNoScheduledDay
}

// WeekStart returns midnight of the Sunday that begins ref's week.
func WeekStart(ref time.Time) time.Time {
	return utils.AddDays(utils.StartOfDay(ref), -int(ref.Weekday()))
}

// Format renders a frequency compactly, e.g. "daily" or "Mon,Wed,Fri".
func Format(frequency []string) string {
	if len(frequency) == 7 {
		return "daily"
	}
	short := make([]string, 0, len(frequency))
	for _, d := range frequency {
		wd, err := ParseWeekday(d)
		if err != nil {
			short = append(short, d)
			continue
		}
		short = append(short, wd.String()[:3])
	}
	return strings.Join(short, ",")
}
