package daterange

// Bounds limits which dates can be picked. A zero Min or Max leaves that side
// unbounded.
type Bounds struct {
	Min CalendarDate
	Max CalendarDate
}

func (bounds Bounds) IsSelectable(date CalendarDate) bool {
	if date.IsZero() {
		return false
	}
	if !bounds.Min.IsZero() && date.Before(bounds.Min) {
		return false
	}
	if !bounds.Max.IsZero() && date.After(bounds.Max) {
		return false
	}
	return true
}
