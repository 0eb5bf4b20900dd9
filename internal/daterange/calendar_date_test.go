package daterange

import (
	"errors"
	"testing"
	"time"
)

func TestDateOfIgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	seoul := time.FixedZone("KST", 9*60*60)
	morning := DateOf(time.Date(2024, time.March, 10, 0, 5, 0, 0, seoul))
	evening := DateOf(time.Date(2024, time.March, 10, 23, 59, 59, 0, seoul))

	if !morning.Equal(evening) || morning.Compare(evening) != 0 {
		t.Fatalf("expected %v and %v to be the same day", morning, evening)
	}
	if got := morning.String(); got != "2024-03-10" {
		t.Fatalf("expected 2024-03-10, got %q", got)
	}
	if got := morning.Display(); got != "2024.03.10" {
		t.Fatalf("expected 2024.03.10, got %q", got)
	}
}

func TestParseCalendarDate(t *testing.T) {
	t.Parallel()

	parsed, err := ParseCalendarDate(" 2024-02-29 ")
	if err != nil {
		t.Fatalf("ParseCalendarDate() unexpected error: %v", err)
	}
	if want := NewCalendarDate(2024, time.February, 29); parsed != want {
		t.Fatalf("expected %v, got %v", want, parsed)
	}

	for _, raw := range []string{"", "2023-02-29", "2024/02/01", "yesterday"} {
		raw := raw
		t.Run(raw, func(t *testing.T) {
			if _, err := ParseCalendarDate(raw); !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("expected ErrInvalidDate for %q, got %v", raw, err)
			}
		})
	}
}

func TestParseMonth(t *testing.T) {
	t.Parallel()

	parsed, err := ParseMonth("2024-12")
	if err != nil {
		t.Fatalf("ParseMonth() unexpected error: %v", err)
	}
	if got := parsed.String(); got != "2024-12-01" {
		t.Fatalf("expected 2024-12-01, got %q", got)
	}

	if _, err := ParseMonth("2024-13"); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}

func TestCalendarDateArithmetic(t *testing.T) {
	t.Parallel()

	date := NewCalendarDate(2024, time.January, 31)

	tests := []struct {
		name string
		got  CalendarDate
		want string
	}{
		{name: "next day", got: date.AddDays(1), want: "2024-02-01"},
		{name: "next month clamps to first", got: date.AddMonths(1), want: "2024-02-01"},
		{name: "previous month", got: date.AddMonths(-1), want: "2023-12-01"},
		{name: "next year", got: date.AddMonths(12), want: "2025-01-01"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.got.String(); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}

	if !date.Before(date.AddDays(1)) || !date.AddDays(1).After(date) {
		t.Fatal("expected ordering to follow the calendar")
	}
	if !(CalendarDate{}).Before(date) {
		t.Fatal("expected the zero date to sort first")
	}
	if !(CalendarDate{}).AddDays(3).IsZero() {
		t.Fatal("expected arithmetic on the zero date to stay zero")
	}
	if got := (CalendarDate{}).String(); got != "" {
		t.Fatalf("expected empty string for zero date, got %q", got)
	}
}
