package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/senaicurso/kalendria/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestParseOption(t *testing.T) {
	assert.Equal(t, 15, parseOption("15 min", "%d min", 10))
	assert.Equal(t, 0, parseOption("0 min", "%d min", 10))
	assert.Equal(t, 10, parseOption("", "%d min", 10))
	assert.Equal(t, 30, parseOption("30 sec", "%d sec", 5))
}

func TestEventsFileLocation(t *testing.T) {
	dir := t.TempDir()

	path, folder := eventsFileLocation(filepath.Join(dir, "events.json"))
	assert.Equal(t, filepath.Join(dir, "events.json"), path)
	assert.Equal(t, "file", folder.Scheme)
	assert.Equal(t, filepath.ToSlash(dir), folder.Path)

	path, _ = eventsFileLocation("events.json")
	assert.True(t, filepath.IsAbs(path))
}

func TestWithCurrent(t *testing.T) {
	options := []string{"5 min", "10 min"}

	assert.Equal(t, options, withCurrent(options, 10, " min"))
	assert.Equal(t, []string{"5 min", "10 min", "7 min"}, withCurrent(options, 7, " min"))
	assert.Len(t, options, 2)
}

func TestParseNotifyMinutes(t *testing.T) {
	n, err := parseNotifyMinutes(" 15 ")
	assert.NoError(t, err)
	assert.Equal(t, 15, n)

	n, err = parseNotifyMinutes("")
	assert.NoError(t, err)
	assert.Zero(t, n)

	_, err = parseNotifyMinutes("soon")
	assert.Error(t, err)

	_, err = parseNotifyMinutes("-5")
	assert.Error(t, err)
}

func TestDetermineEventStatus(t *testing.T) {
	now := time.Date(2024, time.May, 10, 8, 49, 30, 0, time.Local)
	event, err := models.EventDraft{Title: "Dentist", Date: "2024-05-10", Time: "09:00", NotifyMinutes: 10}.Validate()
	assert.NoError(t, err)

	pending := models.Timer{FireAt: event.NotifyAt(time.Local), State: models.TimerPending}
	status, reason := determineEventStatus(event, pending, true, now)
	assert.Equal(t, "Pending", status)
	assert.Equal(t, "Fires in 0m 30s", reason)

	fired := pending
	fired.State = models.TimerFired
	status, _ = determineEventStatus(event, fired, true, now)
	assert.Equal(t, "Fired", status)

	status, _ = determineEventStatus(event, models.Timer{}, false, now)
	assert.Equal(t, "Idle", status)

	event.NotifyMinutes = 0
	status, _ = determineEventStatus(event, models.Timer{}, false, now)
	assert.Equal(t, "Off", status)
}
