// Package daterange holds the calendar logic behind the date-range picker:
// day-granularity dates, the six-week month grid, validity bounds and the
// two-endpoint selection rules.
package daterange

import (
	"errors"
	"strings"
	"time"
)

const (
	dateLayout    = "2006-01-02"
	monthLayout   = "2006-01"
	displayLayout = "2006.01.02"
)

var (
	ErrInvalidDate  = errors.New("invalid calendar date")
	ErrInvalidMonth = errors.New("invalid calendar month")
)

// CalendarDate is a date truncated to day granularity. The zero value means
// "absent".
type CalendarDate struct {
	year  int
	month time.Month
	day   int
}

func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates value to its calendar day in value's own location.
func DateOf(value time.Time) CalendarDate {
	if value.IsZero() {
		return CalendarDate{}
	}
	year, month, day := value.Date()
	return CalendarDate{year: year, month: month, day: day}
}

func ParseCalendarDate(raw string) (CalendarDate, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CalendarDate{}, ErrInvalidDate
	}
	parsed, err := time.Parse(dateLayout, trimmed)
	if err != nil {
		return CalendarDate{}, ErrInvalidDate
	}
	return DateOf(parsed), nil
}

// ParseMonth parses a YYYY-MM value and returns the first day of that month.
func ParseMonth(raw string) (CalendarDate, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CalendarDate{}, ErrInvalidMonth
	}
	parsed, err := time.Parse(monthLayout, trimmed)
	if err != nil {
		return CalendarDate{}, ErrInvalidMonth
	}
	return DateOf(parsed), nil
}

func (date CalendarDate) Year() int             { return date.year }
func (date CalendarDate) Month() time.Month     { return date.month }
func (date CalendarDate) Day() int              { return date.day }
func (date CalendarDate) IsZero() bool          { return date == CalendarDate{} }
func (date CalendarDate) Weekday() time.Weekday { return date.Time().Weekday() }

// Time returns midnight UTC of the date.
func (date CalendarDate) Time() time.Time {
	if date.IsZero() {
		return time.Time{}
	}
	return time.Date(date.year, date.month, date.day, 0, 0, 0, 0, time.UTC)
}

func (date CalendarDate) AddDays(days int) CalendarDate {
	if date.IsZero() {
		return date
	}
	return DateOf(date.Time().AddDate(0, 0, days))
}

// AddMonths returns the first day of the month that is months away from date.
func (date CalendarDate) AddMonths(months int) CalendarDate {
	if date.IsZero() {
		return date
	}
	return NewCalendarDate(date.year, date.month+time.Month(months), 1)
}

func (date CalendarDate) FirstOfMonth() CalendarDate {
	if date.IsZero() {
		return date
	}
	return CalendarDate{year: date.year, month: date.month, day: 1}
}

func (date CalendarDate) SameMonth(other CalendarDate) bool {
	return date.year == other.year && date.month == other.month
}

// Compare returns -1, 0 or +1. Absent dates sort before every present date.
func (date CalendarDate) Compare(other CalendarDate) int {
	switch {
	case date.year != other.year:
		return compareInts(date.year, other.year)
	case date.month != other.month:
		return compareInts(int(date.month), int(other.month))
	default:
		return compareInts(date.day, other.day)
	}
}

func (date CalendarDate) Before(other CalendarDate) bool { return date.Compare(other) < 0 }
func (date CalendarDate) After(other CalendarDate) bool  { return date.Compare(other) > 0 }
func (date CalendarDate) Equal(other CalendarDate) bool  { return date == other }

func (date CalendarDate) String() string {
	if date.IsZero() {
		return ""
	}
	return date.Time().Format(dateLayout)
}

// MonthString formats the month of date as YYYY-MM.
func (date CalendarDate) MonthString() string {
	if date.IsZero() {
		return ""
	}
	return date.Time().Format(monthLayout)
}

// Display formats the date the way the picker inputs show it (2006.01.02).
func (date CalendarDate) Display() string {
	if date.IsZero() {
		return ""
	}
	return date.Time().Format(displayLayout)
}

func compareInts(left int, right int) int {
	switch {
	case left < right:
		return -1
	case left > right:
		return 1
	default:
		return 0
	}
}
