package console

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/miuconsole/internal/daterange"
)

const pickerChangedEvent = "dateRangeChanged"

var pickerNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,31}$`)

// pickerView renders one date-range picker. The full picker state travels
// with every interaction so the server stays stateless.
type pickerView struct {
	Name       string
	State      daterange.PickerState
	Bounds     daterange.Bounds
	Weeks      [][]daterange.Cell
	Display    daterange.Range
	MonthYear  int
	MonthValue int
	Weekdays   []string
}

func (server *Server) newPickerView(name string, state daterange.PickerState, bounds daterange.Bounds, messages map[string]string) pickerView {
	weekdays := make([]string, 0, 7)
	for _, key := range []string{"0", "1", "2", "3", "4", "5", "6"} {
		weekdays = append(weekdays, translateMessage(messages, "picker.weekday."+key))
	}
	return pickerView{
		Name:       name,
		State:      state,
		Bounds:     bounds,
		Weeks:      splitWeeks(state.Cells(bounds)),
		Display:    state.DisplayRange(),
		MonthYear:  state.Month.Year(),
		MonthValue: int(state.Month.Month()),
		Weekdays:   weekdays,
	}
}

func splitWeeks(cells []daterange.Cell) [][]daterange.Cell {
	weeks := make([][]daterange.Cell, 0, len(cells)/7)
	for start := 0; start < len(cells); start += 7 {
		weeks = append(weeks, cells[start:min(start+7, len(cells))])
	}
	return weeks
}

// Vals encodes the state plus one event as hx-vals JSON.
func (view pickerView) Vals(event string, date string) string {
	values := map[string]string{
		"name":   view.Name,
		"event":  event,
		"cs":     dateValue(view.State.Committed.Start),
		"ce":     dateValue(view.State.Committed.End),
		"ts":     dateValue(view.State.Temp.Start),
		"te":     dateValue(view.State.Temp.End),
		"cursor": view.State.Cursor.String(),
		"month":  view.State.Month.MonthString(),
		"hover":  dateValue(view.State.Hover),
		"min":    dateValue(view.Bounds.Min),
		"max":    dateValue(view.Bounds.Max),
	}
	if view.State.Open {
		values["open"] = "1"
	}
	if event == "focus" {
		values["target"] = date
	} else if date != "" {
		values["date"] = date
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

func dateValue(date daterange.CalendarDate) string {
	if date.IsZero() {
		return ""
	}
	return date.String()
}

func parseDateParam(raw string) daterange.CalendarDate {
	date, err := daterange.ParseCalendarDate(strings.TrimSpace(raw))
	if err != nil {
		return daterange.CalendarDate{}
	}
	return date
}

// parsePickerRequest rebuilds the picker state and the event from query
// parameters. Malformed values fall back to empty ones.
func parsePickerRequest(c *fiber.Ctx, today daterange.CalendarDate) (string, daterange.PickerState, daterange.Event, daterange.Bounds) {
	name := strings.TrimSpace(c.Query("name"))
	if !pickerNamePattern.MatchString(name) {
		name = "period"
	}

	committed := normalizeRange(daterange.Range{Start: parseDateParam(c.Query("cs")), End: parseDateParam(c.Query("ce"))})
	state := daterange.NewPickerState(committed, today)
	// An end without a start is a valid selection in progress.
	state.Temp = orderRange(daterange.Range{Start: parseDateParam(c.Query("ts")), End: parseDateParam(c.Query("te"))})
	state.Cursor = daterange.ParseCursor(c.Query("cursor"))
	state.Hover = parseDateParam(c.Query("hover"))
	state.Open = c.Query("open") == "1"
	if month, err := daterange.ParseMonth(c.Query("month")); err == nil {
		state.Month = month
	}
	if !state.Open {
		state.Temp = committed
	}

	bounds := daterange.Bounds{Min: parseDateParam(c.Query("min")), Max: parseDateParam(c.Query("max"))}
	if !bounds.Min.IsZero() && !bounds.Max.IsZero() && bounds.Min.After(bounds.Max) {
		bounds = daterange.Bounds{}
	}

	event := daterange.Event{}
	if kind, ok := daterange.ParseEventKind(c.Query("event")); ok {
		event.Kind = kind
		event.Date = parseDateParam(c.Query("date"))
		event.Cursor = daterange.ParseCursor(c.Query("target"))
	}
	return name, state, event, bounds
}

// normalizeRange drops an end without a start and orders the endpoints.
func normalizeRange(value daterange.Range) daterange.Range {
	if !value.HasStart() {
		return daterange.Range{}
	}
	return orderRange(value)
}

func orderRange(value daterange.Range) daterange.Range {
	if value.HasStart() && value.HasEnd() && value.End.Before(value.Start) {
		value.Start, value.End = value.End, value.Start
	}
	return value
}

// ShowPicker applies one picker event and renders the updated picker.
// Confirming or resetting announces the new value to the page.
func (server *Server) ShowPicker(c *fiber.Ctx) error {
	today := daterange.DateOf(server.now().In(server.location))
	name, state, event, bounds := parsePickerRequest(c, today)

	next := state
	if event.Kind != 0 {
		next = daterange.Apply(state, event, bounds)
	}
	if next.Committed != state.Committed {
		c.Set("HX-Trigger-After-Settle", pickerChangedEvent)
	}

	return server.renderPartial(c, "date_picker", fiber.Map{
		"Picker": server.newPickerView(name, next, bounds, currentMessages(c)),
	})
}
