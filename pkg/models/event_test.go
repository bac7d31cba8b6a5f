package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		draft   EventDraft
		field   string
		wantErr bool
	}{
		{name: "valid", draft: EventDraft{Title: "Dentist", Date: "2024-05-10", Time: "09:00", NotifyMinutes: 10}},
		{name: "no notification", draft: EventDraft{Title: "Lunch", Date: "2024-05-10", Time: "12:30"}},
		{name: "blank title", draft: EventDraft{Title: "   ", Date: "2024-05-10", Time: "09:00"}, field: "title", wantErr: true},
		{name: "missing date", draft: EventDraft{Title: "x", Time: "09:00"}, field: "date", wantErr: true},
		{name: "bad date", draft: EventDraft{Title: "x", Date: "10/05/2024", Time: "09:00"}, field: "date", wantErr: true},
		{name: "impossible date", draft: EventDraft{Title: "x", Date: "2024-02-30", Time: "09:00"}, field: "date", wantErr: true},
		{name: "missing time", draft: EventDraft{Title: "x", Date: "2024-05-10"}, field: "time", wantErr: true},
		{name: "bad time", draft: EventDraft{Title: "x", Date: "2024-05-10", Time: "25:00"}, field: "time", wantErr: true},
		{name: "negative notify", draft: EventDraft{Title: "x", Date: "2024-05-10", Time: "09:00", NotifyMinutes: -5}, field: "notify", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := tt.draft.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Empty(t, event.ID)
				return
			}

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestValidateTrimsTitle(t *testing.T) {
	event, err := EventDraft{Title: "  Dentist ", Date: "2024-05-10", Time: "09:00"}.Validate()
	require.NoError(t, err)

	assert.Equal(t, "Dentist", event.Title)
	assert.Equal(t, Date{Year: 2024, Month: time.May, Day: 10}, event.Date)
	assert.Equal(t, ClockTime{Hour: 9, Minute: 0}, event.Time)
}

func TestEventNotifyAt(t *testing.T) {
	event := Event{
		Title:         "Dentist",
		Date:          Date{Year: 2024, Month: time.May, Day: 10},
		Time:          ClockTime{Hour: 9, Minute: 0},
		NotifyMinutes: 10,
	}

	assert.Equal(t, time.Date(2024, time.May, 10, 9, 0, 0, 0, time.UTC), event.Start(time.UTC))
	assert.Equal(t, time.Date(2024, time.May, 10, 8, 50, 0, 0, time.UTC), event.NotifyAt(time.UTC))
	assert.True(t, event.HasNotification())

	event.NotifyMinutes = 0
	assert.False(t, event.HasNotification())
}

func TestNotifyAtCrossesMidnight(t *testing.T) {
	event := Event{
		Date:          Date{Year: 2024, Month: time.January, Day: 1},
		Time:          ClockTime{Hour: 0, Minute: 5},
		NotifyMinutes: 30,
	}

	assert.Equal(t, time.Date(2023, time.December, 31, 23, 35, 0, 0, time.UTC), event.NotifyAt(time.UTC))
}

func TestDateAddDays(t *testing.T) {
	d := Date{Year: 2024, Month: time.February, Day: 28}

	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, d.AddDays(1))
	assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 1}, d.AddDays(2))
	assert.Equal(t, Date{Year: 2024, Month: time.January, Day: 31}, d.AddDays(-28))
}

func TestDraftOfRoundTrip(t *testing.T) {
	original := EventDraft{Title: "Standup", Date: "2024-05-10", Time: "07:05", NotifyMinutes: 5}

	event, err := original.Validate()
	require.NoError(t, err)
	assert.Equal(t, original, DraftOf(event))
}
