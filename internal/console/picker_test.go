package console

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/miuconsole/internal/daterange"
)

func pickerRequest(t *testing.T, query string) *http.Request {
	request := withCookies(httptest.NewRequest(http.MethodGet, "/admin/picker?"+query, nil), adminCookies(t))
	request.Header.Set("HX-Request", "true")
	return request
}

func TestPickerOpenShowsCommittedMonth(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)
	response, body := doRequest(t, app, pickerRequest(t, "lang=en&name=period&event=open&cs=2024-01-10&ce=2024-01-12&month=2024-03"))

	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Contains(t, body, "date-picker-panel")
	assert.Contains(t, body, "1/2024")
	assert.Contains(t, body, "2024.01.10")
	assert.Empty(t, response.Header.Get("HX-Trigger-After-Settle"))
}

func TestPickerClickKeepsPanelOpenWithoutCommitting(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)
	response, body := doRequest(t, app, pickerRequest(t, "name=period&event=click&date=2024-03-05&open=1&month=2024-03"))

	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Contains(t, body, "is-start")
	assert.Contains(t, body, `name="period_from" value=""`)
	assert.Empty(t, response.Header.Get("HX-Trigger-After-Settle"))
}

func TestPickerApplyCommitsAndAnnouncesChange(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)
	response, body := doRequest(t, app, pickerRequest(t, "name=period&event=apply&open=1&ts=2024-03-01&te=2024-03-09&month=2024-03"))

	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, pickerChangedEvent, response.Header.Get("HX-Trigger-After-Settle"))
	assert.Contains(t, body, `name="period_from" value="2024-03-01"`)
	assert.Contains(t, body, `name="period_to" value="2024-03-09"`)
	assert.NotContains(t, body, "date-picker-panel")
}

func TestPickerResetClearsCommittedRange(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)
	response, body := doRequest(t, app, pickerRequest(t, "name=period&event=reset&open=1&cs=2024-03-01&ce=2024-03-09"))

	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, pickerChangedEvent, response.Header.Get("HX-Trigger-After-Settle"))
	assert.Contains(t, body, `name="period_from" value=""`)
}

func TestPickerRejectsDatesAfterMax(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)
	_, body := doRequest(t, app, pickerRequest(t, "name=period&event=click&date=2024-03-25&open=1&month=2024-03&max=2024-03-20"))

	assert.NotContains(t, body, "is-start")
	assert.Contains(t, body, "is-disabled")
}

func TestPickerInvalidNameFallsBack(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)
	_, body := doRequest(t, app, pickerRequest(t, `name=%22%3E%3Cscript%3E&event=open`))

	assert.Contains(t, body, `id="picker-period"`)
	assert.NotContains(t, body, "<script>")
}

func TestPickerViewValsCarriesState(t *testing.T) {
	t.Parallel()

	start := daterange.NewCalendarDate(2024, 3, 1)
	state := daterange.NewPickerState(daterange.Range{Start: start}, start)
	state.Open = true
	view := pickerView{Name: "period", State: state, Bounds: daterange.Bounds{Max: daterange.NewCalendarDate(2024, 3, 20)}}

	values := map[string]string{}
	require.NoError(t, json.Unmarshal([]byte(view.Vals("click", "2024-03-04")), &values))
	assert.Equal(t, "click", values["event"])
	assert.Equal(t, "2024-03-04", values["date"])
	assert.Equal(t, "2024-03-01", values["cs"])
	assert.Equal(t, "2024-03", values["month"])
	assert.Equal(t, "2024-03-20", values["max"])
	assert.Equal(t, "1", values["open"])

	require.NoError(t, json.Unmarshal([]byte(view.Vals("focus", "end")), &values))
	assert.Equal(t, "end", values["target"])
}

func TestSplitWeeksProducesSixRows(t *testing.T) {
	t.Parallel()

	state := daterange.NewPickerState(daterange.Range{}, daterange.NewCalendarDate(2024, 3, 1))
	weeks := splitWeeks(state.Cells(daterange.Bounds{}))

	require.Len(t, weeks, 6)
	for _, week := range weeks {
		assert.Len(t, week, 7)
	}
}

func TestPickerRoundTripKeepsEndChosenBeforeStart(t *testing.T) {
	t.Parallel()

	today := daterange.NewCalendarDate(2024, 3, 20)
	bounds := daterange.Bounds{Max: today}
	state := daterange.NewPickerState(daterange.Range{}, today)
	state = daterange.Apply(state, daterange.Event{Kind: daterange.EventFocus, Cursor: daterange.CursorEnd}, bounds)
	state = daterange.Apply(state, daterange.Event{Kind: daterange.EventClick, Date: daterange.NewCalendarDate(2024, 3, 10)}, bounds)
	require.Equal(t, daterange.Range{End: daterange.NewCalendarDate(2024, 3, 10)}, state.Temp)

	// Replay the next click the way the rendered cell would send it.
	view := pickerView{Name: "period", State: state, Bounds: bounds}
	values := map[string]string{}
	require.NoError(t, json.Unmarshal([]byte(view.Vals("click", "2024-03-05")), &values))
	query := url.Values{}
	for key, value := range values {
		query.Set(key, value)
	}

	app := newTestApp(t, nil)
	response, body := doRequest(t, app, pickerRequest(t, query.Encode()))

	require.Equal(t, http.StatusOK, response.StatusCode)
	expected := daterange.Apply(state, daterange.Event{Kind: daterange.EventClick, Date: daterange.NewCalendarDate(2024, 3, 5)}, bounds)
	require.Equal(t, daterange.Range{Start: daterange.NewCalendarDate(2024, 3, 5), End: daterange.NewCalendarDate(2024, 3, 10)}, expected.Temp)
	assert.Contains(t, body, "is-start")
	assert.Contains(t, body, "is-end")
	assert.Contains(t, body, "2024.03.05")
	assert.Contains(t, body, "2024.03.10")
}
