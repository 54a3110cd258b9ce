package utils

import (
	"testing"
	"time"
)

func TestParseDateInLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)

	got, err := ParseDateInLocation("2024-03-10", loc)
	if err != nil {
		t.Fatalf("ParseDateInLocation() error = %v", err)
	}
	if got.Location() != loc || got.Hour() != 0 || got.Day() != 10 {
		t.Errorf("ParseDateInLocation() = %v, want midnight 2024-03-10 in %v", got, loc)
	}
	if FormatDate(got) != "2024-03-10" {
		t.Errorf("FormatDate() = %q", FormatDate(got))
	}

	if _, err := ParseDateInLocation("03/10/2024", loc); err == nil {
		t.Error("ParseDateInLocation() accepted a non ISO date")
	}
}

func TestFormatDateUsesLocalCalendar(t *testing.T) {
	// 23:30 local on the 10th is already the 11th in UTC.
	loc := time.FixedZone("UTC-5", -5*60*60)
	late := time.Date(2024, 3, 10, 23, 30, 0, 0, loc)

	if got := FormatDate(late); got != "2024-03-10" {
		t.Errorf("FormatDate() = %q, want local day 2024-03-10", got)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{
			name: "same day different hours",
			a:    time.Date(2024, 1, 2, 23, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "one day",
			a:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "across month",
			a:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC),
			want: 3,
		},
		{
			name: "negative",
			a:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			want: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStartOfDayAndAddDays(t *testing.T) {
	ts := time.Date(2024, 2, 28, 15, 4, 5, 6, time.UTC)
	if got := StartOfDay(ts); !got.Equal(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfDay() = %v", got)
	}
	if got := FormatDate(AddDays(ts, 2)); got != "2024-03-01" {
		t.Errorf("AddDays() across leap day = %q, want 2024-03-01", got)
	}
}

func TestValidateTimeFormat(t *testing.T) {
	for in, want := range map[string]bool{"08:30": true, "23:59": true, "24:00": false, "8am": false, "": false} {
		if got := ValidateTimeFormat(in); got != want {
			t.Errorf("ValidateTimeFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{5, "Good morning"},
		{11, "Good morning"},
		{12, "Good afternoon"},
		{18, "Good evening"},
		{22, "Good night"},
		{3, "Good night"},
	}
	for _, tt := range tests {
		got := Greeting(time.Date(2024, 1, 1, tt.hour, 0, 0, 0, time.UTC))
		if got != tt.want {
			t.Errorf("Greeting(%d:00) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}
