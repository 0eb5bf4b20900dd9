package daterange

// EventKind enumerates the interactions the picker reacts to.
type EventKind int

const (
	EventOpen EventKind = iota + 1
	EventClose
	EventFocus
	EventClick
	EventHover
	EventLeave
	EventPrevMonth
	EventNextMonth
	EventConfirm
	EventReset
)

var eventNames = map[string]EventKind{
	"open":  EventOpen,
	"close": EventClose,
	"focus": EventFocus,
	"click": EventClick,
	"hover": EventHover,
	"leave": EventLeave,
	"prev":  EventPrevMonth,
	"next":  EventNextMonth,
	"apply": EventConfirm,
	"reset": EventReset,
}

// ParseEventKind maps the wire names used by the picker partial. Unknown names
// return false.
func ParseEventKind(raw string) (EventKind, bool) {
	kind, ok := eventNames[raw]
	return kind, ok
}

type Event struct {
	Kind   EventKind
	Date   CalendarDate
	Cursor Cursor
}

// PickerState is the whole picker: the externally confirmed value, the
// in-progress selection and view state. It is replaced, never mutated, by
// Apply.
type PickerState struct {
	Committed Range
	Temp      Range
	Cursor    Cursor
	Month     CalendarDate
	Hover     CalendarDate
	Open      bool
}

// NewPickerState seeds a closed picker showing the committed start month, or
// today's month when nothing is committed.
func NewPickerState(committed Range, today CalendarDate) PickerState {
	month := today.FirstOfMonth()
	if committed.HasStart() {
		month = committed.Start.FirstOfMonth()
	}
	return PickerState{
		Committed: committed,
		Temp:      committed,
		Cursor:    DerivedCursor(committed),
		Month:     month,
	}
}

// Apply returns the state that results from event.
func Apply(state PickerState, event Event, bounds Bounds) PickerState {
	next := state

	switch event.Kind {
	case EventOpen:
		next = reopen(state)
	case EventClose:
		next.Open = false
		next.Temp = state.Committed
		next.Hover = CalendarDate{}
		next.Cursor = DerivedCursor(state.Committed)
	case EventFocus:
		if !state.Open {
			next = reopen(state)
		}
		if event.Cursor != CursorNone {
			next.Cursor = event.Cursor
		}
	case EventClick:
		if !state.Open || !bounds.IsSelectable(event.Date) {
			return state
		}
		startsNewRange := state.Cursor == CursorNone
		next.Temp, next.Cursor = SelectDate(event.Date, state.Temp, state.Cursor, bounds)
		if startsNewRange {
			next.Hover = CalendarDate{}
		}
		// The active input follows the selection while the picker is open.
		if next.Temp != state.Temp {
			next.Cursor = DerivedCursor(next.Temp)
		}
		next.Month = event.Date.FirstOfMonth()
	case EventHover:
		if !state.Open {
			return state
		}
		next.Hover = event.Date
	case EventLeave:
		next.Hover = CalendarDate{}
	case EventPrevMonth:
		next.Month = state.Month.AddMonths(-1)
	case EventNextMonth:
		next.Month = state.Month.AddMonths(1)
	case EventConfirm:
		confirmed, err := Confirm(state.Temp)
		if err != nil {
			return state
		}
		next.Committed = confirmed
		next.Open = false
		next.Hover = CalendarDate{}
	case EventReset:
		next.Committed = Reset()
		next.Temp = Reset()
		next.Cursor = CursorStart
		next.Hover = CalendarDate{}
		next.Open = false
	}

	return next
}

func reopen(state PickerState) PickerState {
	next := state
	next.Open = true
	next.Temp = state.Committed
	next.Hover = CalendarDate{}
	next.Cursor = DerivedCursor(state.Committed)
	if state.Committed.HasStart() {
		next.Month = state.Committed.Start.FirstOfMonth()
	}
	return next
}

// DisplayRange is what the inputs show: the in-progress selection when it is
// complete, otherwise the committed value.
func (state PickerState) DisplayRange() Range {
	if state.Temp.Complete() {
		return state.Temp
	}
	return state.Committed
}

func (state PickerState) CanConfirm() bool {
	return state.Temp.Complete()
}

// Cell is one rendered day of the month grid.
type Cell struct {
	Date      CalendarDate
	InMonth   bool
	IsStart   bool
	IsEnd     bool
	IsSingle  bool
	InPreview bool
	Disabled  bool
}

func (state PickerState) Cells(bounds Bounds) []Cell {
	grid := ComputeMonthGrid(state.Month)
	cells := make([]Cell, 0, GridSize)
	for _, date := range grid {
		isStart := state.Temp.HasStart() && date.Equal(state.Temp.Start)
		isEnd := state.Temp.HasEnd() && date.Equal(state.Temp.End)
		cells = append(cells, Cell{
			Date:      date,
			InMonth:   date.SameMonth(state.Month),
			IsStart:   isStart,
			IsEnd:     isEnd,
			IsSingle:  isStart && isEnd,
			InPreview: PreviewContains(date, state.Temp, state.Hover),
			Disabled:  !bounds.IsSelectable(date),
		})
	}
	return cells
}
