package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/senaicurso/kalendria/pkg/models"
)

const (
	productID = "-//Kalendria//Kalendria Calendar//EN"
	// Floating local time, no TZID and no UTC marker
	floatingLayout = "20060102T150405"
)

// Export writes events as an iCalendar document. Each event becomes a VEVENT
// whose UID is the event ID; events with a notification carry a DISPLAY
// alarm triggered that many minutes before the start.
func Export(w io.Writer, events []models.Event) error {
	return exportAt(w, events, time.Now())
}

func exportAt(w io.Writer, events []models.Event, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, event := range events {
		cal.Children = append(cal.Children, toComponent(event, now))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func toComponent(event models.Event, now time.Time) *ical.Component {
	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, event.ID)
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	vevent.Props.SetText(ical.PropSummary, event.Title)

	start := ical.NewProp(ical.PropDateTimeStart)
	start.Value = event.Start(time.Local).Format(floatingLayout)
	vevent.Props.Set(start)

	if event.HasNotification() {
		alarm := ical.NewComponent(ical.CompAlarm)
		alarm.Props.SetText(ical.PropAction, "DISPLAY")
		alarm.Props.SetText(ical.PropDescription, event.Title)

		trigger := ical.NewProp(ical.PropTrigger)
		trigger.Value = fmt.Sprintf("-PT%dM", event.NotifyMinutes)
		alarm.Props.Set(trigger)

		vevent.Children = append(vevent.Children, alarm)
	}

	return vevent.Component
}
