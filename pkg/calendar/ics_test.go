package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/senaicurso/kalendria/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEvent(t *testing.T, id string, draft models.EventDraft) models.Event {
	t.Helper()
	event, err := draft.Validate()
	require.NoError(t, err)
	event.ID = id
	return event
}

func TestExportImportRoundTrip(t *testing.T) {
	events := []models.Event{
		mustEvent(t, "a", models.EventDraft{Title: "Dentist, downtown", Date: "2024-05-10", Time: "09:00", NotifyMinutes: 10}),
		mustEvent(t, "b", models.EventDraft{Title: "Lunch", Date: "2024-05-11", Time: "12:30"}),
	}

	var buf bytes.Buffer
	require.NoError(t, exportAt(&buf, events, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "UID:a")
	assert.Contains(t, out, "DTSTART:20240510T090000")
	assert.Contains(t, out, "TRIGGER:-PT10M")

	drafts, err := Import(&buf)
	require.NoError(t, err)

	require.Len(t, drafts, 2)
	for i, event := range events {
		want := models.DraftOf(event)
		want.UID = event.ID
		assert.Equal(t, want, drafts[i])
	}
}

const sampleFeed = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Example//EN
BEGIN:VEVENT
UID:1
DTSTAMP:20240501T000000Z
SUMMARY:Standup
DTSTART:20240510T091500
BEGIN:VALARM
ACTION:DISPLAY
TRIGGER:-PT1H30M
END:VALARM
END:VEVENT
BEGIN:VEVENT
UID:2
DTSTAMP:20240501T000000Z
SUMMARY:Weekly sync
DTSTART:20240510T100000
RRULE:FREQ=WEEKLY
END:VEVENT
BEGIN:VEVENT
UID:3
DTSTAMP:20240501T000000Z
SUMMARY:Holiday
DTSTART;VALUE=DATE:20240511
END:VEVENT
BEGIN:VEVENT
UID:4
DTSTAMP:20240501T000000Z
SUMMARY:No start
END:VEVENT
BEGIN:VEVENT
UID:5
DTSTAMP:20240501T000000Z
SUMMARY:Standup
DTSTART:20240510T091500
END:VEVENT
END:VCALENDAR
`

func TestImportSkipsUnsupportedEvents(t *testing.T) {
	drafts, err := Import(strings.NewReader(strings.ReplaceAll(sampleFeed, "\n", "\r\n")))
	require.NoError(t, err)

	require.Len(t, drafts, 1)
	assert.Equal(t, models.EventDraft{Title: "Standup", Date: "2024-05-10", Time: "09:15", NotifyMinutes: 90, UID: "1"}, drafts[0])
}

func TestImportRejectsHTML(t *testing.T) {
	_, err := Import(strings.NewReader("<!DOCTYPE html><html><body>Login</body></html>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTML")
}

func TestImportRejectsGarbage(t *testing.T) {
	_, err := Import(strings.NewReader("hello world"))
	assert.ErrorContains(t, err, "BEGIN:VCALENDAR")
}

func TestParseTriggerDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
		ok    bool
	}{
		{"-PT15M", -15 * time.Minute, true},
		{"-P1DT2H", -26 * time.Hour, true},
		{"-P1W", -7 * 24 * time.Hour, true},
		{"PT0S", 0, true},
		{"+PT5M", 5 * time.Minute, true},
		{"P", 0, false},
		{"-PT", 0, false},
		{"15 minutes", 0, false},
	}

	for _, tt := range tests {
		got, err := parseTriggerDuration(tt.value)
		if !tt.ok {
			assert.Error(t, err, tt.value)
			continue
		}
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, got, tt.value)
	}
}
