package schedule

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/utils"
)

// 2024-01-02 is a Tuesday.
var tuesday = time.Date(2024, 1, 2, 10, 0, 0, 0, time.Local)

func TestMostRecent(t *testing.T) {
	tests := []struct {
		name      string
		frequency []string
		ref       time.Time
		want      string
	}{
		{
			name:      "mon wed fri on a tuesday resolves to monday",
			frequency: []string{"Monday", "Wednesday", "Friday"},
			ref:       tuesday,
			want:      "2024-01-01",
		},
		{
			name:      "scheduled today",
			frequency: []string{"Tuesday"},
			ref:       tuesday,
			want:      "2024-01-02",
		},
		{
			name:      "all seven days",
			frequency: []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
			ref:       tuesday,
			want:      "2024-01-02",
		},
		{
			name:      "case insensitive",
			frequency: []string{"mONDAY"},
			ref:       tuesday,
			want:      "2024-01-01",
		},
		{
			name:      "six days back",
			frequency: []string{"Wednesday"},
			ref:       tuesday,
			want:      "2023-12-27",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MostRecent(tt.frequency, tt.ref)
			if err != nil {
				t.Fatalf("MostRecent() error = %v", err)
			}
			if utils.FormatDate(got) != tt.want {
				t.Errorf("MostRecent() = %s, want %s", utils.FormatDate(got), tt.want)
			}
			if got.After(tt.ref) {
				t.Errorf("MostRecent() = %v is after reference %v", got, tt.ref)
			}
		})
	}
}

func TestMostRecentEmptyFrequency(t *testing.T) {
	for _, freq := range [][]string{nil, {}, {"Someday"}} {
		if _, err := MostRecent(freq, tuesday); !errors.Is(err, ErrNoScheduledDay) {
			t.Errorf("MostRecent(%v) error = %v, want ErrNoScheduledDay", freq, err)
		}
	}
}

func TestMostRecentStaysOnLocalCalendar(t *testing.T) {
	// 23:30 on Monday at UTC-5 is Tuesday in UTC; the walk must use Monday.
	loc := time.FixedZone("UTC-5", -5*60*60)
	ref := time.Date(2024, 1, 1, 23, 30, 0, 0, loc)

	got, err := MostRecent([]string{"Monday"}, ref)
	if err != nil {
		t.Fatalf("MostRecent() error = %v", err)
	}
	if utils.FormatDate(got) != "2024-01-01" {
		t.Errorf("MostRecent() = %s, want 2024-01-01", utils.FormatDate(got))
	}
}

func TestNormalizeFrequency(t *testing.T) {
	got, err := NormalizeFrequency([]string{"friday", "Mon", "monday", " WED ", "0"})
	if err != nil {
		t.Fatalf("NormalizeFrequency() error = %v", err)
	}
	want := []string{"Sunday", "Monday", "Wednesday", "Friday"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeFrequency() = %v, want %v", got, want)
	}

	if _, err := NormalizeFrequency([]string{"Funday"}); err == nil {
		t.Error("NormalizeFrequency() accepted an unknown weekday")
	}
}

func TestWeekStart(t *testing.T) {
	got := WeekStart(tuesday)
	if utils.FormatDate(got) != "2023-12-31" || got.Weekday() != time.Sunday || got.Hour() != 0 {
		t.Errorf("WeekStart() = %v, want Sunday 2023-12-31 00:00", got)
	}

	sunday := time.Date(2023, 12, 31, 18, 0, 0, 0, time.Local)
	if utils.FormatDate(WeekStart(sunday)) != "2023-12-31" {
		t.Errorf("WeekStart(sunday) should be the same day")
	}
}

func TestFormat(t *testing.T) {
	all := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if got := Format(all); got != "daily" {
		t.Errorf("Format(all) = %q", got)
	}
	if got := Format([]string{"Monday", "Friday"}); got != "Mon,Fri" {
		t.Errorf("Format() = %q", got)
	}
}
