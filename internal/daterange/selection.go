package daterange

import (
	"errors"
	"strings"
)

var ErrRangePending = errors.New("date range is incomplete")

// Range is a pair of optional endpoints. When both are present Start is never
// after End.
type Range struct {
	Start CalendarDate
	End   CalendarDate
}

func (r Range) HasStart() bool { return !r.Start.IsZero() }
func (r Range) HasEnd() bool   { return !r.End.IsZero() }
func (r Range) Complete() bool { return r.HasStart() && r.HasEnd() }
func (r Range) IsEmpty() bool  { return !r.HasStart() && !r.HasEnd() }

// Display renders a complete range as "2006.01.02 ~ 2006.01.02" and anything
// else as an empty string.
func (r Range) Display() string {
	if !r.Complete() {
		return ""
	}
	return r.Start.Display() + " ~ " + r.End.Display()
}

// Cursor tells which endpoint the next click assigns.
type Cursor int

const (
	CursorNone Cursor = iota
	CursorStart
	CursorEnd
)

func (cursor Cursor) String() string {
	switch cursor {
	case CursorStart:
		return "start"
	case CursorEnd:
		return "end"
	default:
		return ""
	}
}

func ParseCursor(raw string) Cursor {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "start":
		return CursorStart
	case "end":
		return CursorEnd
	default:
		return CursorNone
	}
}

// SelectDate applies a click on date to current. Dates outside bounds leave
// the range and cursor untouched.
func SelectDate(date CalendarDate, current Range, cursor Cursor, bounds Bounds) (Range, Cursor) {
	if !bounds.IsSelectable(date) {
		return current, cursor
	}

	switch cursor {
	case CursorStart:
		if date.Equal(current.Start) && current.HasEnd() && !current.End.Equal(date) {
			return Range{Start: date, End: date}, cursor
		}
		if current.HasEnd() && date.After(current.End) {
			return Range{Start: current.End, End: date}, cursor
		}
		return Range{Start: date, End: current.End}, cursor
	case CursorEnd:
		if date.Equal(current.End) && current.HasStart() && !current.Start.Equal(date) {
			return Range{Start: date, End: date}, cursor
		}
		if current.HasStart() && date.Before(current.Start) {
			return Range{Start: date, End: current.Start}, cursor
		}
		return Range{Start: current.Start, End: date}, cursor
	default:
		return Range{Start: date}, CursorEnd
	}
}

func DerivedCursor(current Range) Cursor {
	switch {
	case !current.HasStart():
		return CursorStart
	case !current.HasEnd():
		return CursorEnd
	default:
		return CursorStart
	}
}

// PreviewContains reports whether date lies between the start and either the
// end or the hovered date, whichever order they were picked in.
func PreviewContains(date CalendarDate, current Range, hover CalendarDate) bool {
	if date.IsZero() || !current.HasStart() {
		return false
	}
	other := current.End
	if other.IsZero() {
		other = hover
	}
	if other.IsZero() {
		return false
	}

	low, high := current.Start, other
	if high.Before(low) {
		low, high = high, low
	}
	return !date.Before(low) && !date.After(high)
}

func Confirm(current Range) (Range, error) {
	if !current.Complete() {
		return current, ErrRangePending
	}
	return current, nil
}

func Reset() Range {
	return Range{}
}
