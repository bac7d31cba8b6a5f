package components

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/senaicurso/kalendria/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent(t *testing.T, id, title, clock string, notify int) models.Event {
	t.Helper()
	event, err := models.EventDraft{Title: title, Date: "2024-05-10", Time: clock, NotifyMinutes: notify}.Validate()
	require.NoError(t, err)
	event.ID = id
	return event
}

func TestRowText(t *testing.T) {
	dentist := sampleEvent(t, "a", "Dentist", "09:00", 10)
	lunch := sampleEvent(t, "b", "Lunch", "12:30", 0)

	assert.Equal(t, "09:00 - Dentist", RowTitle(dentist))
	assert.Equal(t, "Notify: 10 min", NotifyText(dentist))
	assert.Equal(t, "Not set", NotifyText(lunch))
}

func TestEventListShowsEventsAndCountdowns(t *testing.T) {
	test.NewTempApp(t)

	el, content := NewEventList(EventListConfig{EmptyLabel: "Nothing planned"})
	require.NotNil(t, content)
	assert.True(t, el.empty.Visible())

	events := []models.Event{
		sampleEvent(t, "a", "Dentist", "09:00", 10),
		sampleEvent(t, "b", "Lunch", "12:30", 0),
	}
	el.SetEvents(events)
	assert.Equal(t, events, el.Events())
	assert.Equal(t, 2, el.list.Length())
	assert.False(t, el.empty.Visible())

	el.SetCountdowns(map[string]string{"a": "0m 30s"})
	assert.Equal(t, "0m 30s", el.Countdown("a"))
	assert.Empty(t, el.Countdown("b"))

	el.SetCountdowns(nil)
	assert.Empty(t, el.Countdown("a"))

	el.SetEvents(nil)
	assert.Zero(t, el.list.Length())
	assert.True(t, el.empty.Visible())
}

func TestEventListRowCallbacks(t *testing.T) {
	test.NewTempApp(t)

	var edited, deleted string
	el, _ := NewEventList(EventListConfig{
		OnEdit:   func(e models.Event) { edited = e.ID },
		OnDelete: func(e models.Event) { deleted = e.ID },
	})
	el.SetEvents([]models.Event{sampleEvent(t, "a", "Dentist", "09:00", 10)})
	el.SetCountdowns(map[string]string{"a": "5m 0s"})

	row := el.list.CreateItem()
	el.list.UpdateItem(0, row)

	title, countdown, notify, editButton, deleteButton := rowParts(t, row)
	assert.Equal(t, "09:00 - Dentist", title.Text)
	assert.Equal(t, "5m 0s", countdown.Text)
	assert.Equal(t, "Notify: 10 min", notify.Text)

	test.Tap(editButton)
	test.Tap(deleteButton)
	assert.Equal(t, "a", edited)
	assert.Equal(t, "a", deleted)
}

func rowParts(t *testing.T, row fyne.CanvasObject) (title, countdown, notify *widget.Label, edit, del *widget.Button) {
	t.Helper()

	c, ok := row.(*fyne.Container)
	require.True(t, ok)
	require.Len(t, c.Objects, 2)
	controls := c.Objects[1].(*fyne.Container)
	require.Len(t, controls.Objects, 4)

	return c.Objects[0].(*widget.Label),
		controls.Objects[0].(*widget.Label),
		controls.Objects[1].(*widget.Label),
		controls.Objects[2].(*widget.Button),
		controls.Objects[3].(*widget.Button)
}
