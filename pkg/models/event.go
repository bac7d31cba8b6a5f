package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Date is a calendar day without a time component
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// DateOf returns the calendar day of t in t's own location
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the current local calendar day
func Today() Date {
	return DateOf(time.Now())
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Midnight returns the start of the day in loc
func (d Date) Midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days later (or earlier for negative n)
func (d Date) AddDays(n int) Date {
	return DateOf(d.Midnight(time.UTC).AddDate(0, 0, n))
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ClockTime is a time of day interpreted in the host's local zone
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses an HH:MM string
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse(timeLayout, strings.TrimSpace(s))
	if err != nil {
		return ClockTime{}, err
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClockTime(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Schedule holds the fields a notification countdown is derived from
type Schedule struct {
	Date          Date
	Time          ClockTime
	NotifyMinutes int
}

// Event represents a calendar event
type Event struct {
	ID            string    `json:"id"`     // Stable identifier (UUID), never a list position
	Title         string    `json:"title"`  // Non-empty title
	Date          Date      `json:"date"`   // YYYY-MM-DD
	Time          ClockTime `json:"time"`   // HH:MM, local time
	NotifyMinutes int       `json:"notify"` // Minutes before start, 0 = no notification
}

// Start returns the absolute instant the event begins at in loc
func (e Event) Start(loc *time.Location) time.Time {
	return time.Date(e.Date.Year, e.Date.Month, e.Date.Day, e.Time.Hour, e.Time.Minute, 0, 0, loc)
}

// NotifyAt returns the instant the notification is due in loc
func (e Event) NotifyAt(loc *time.Location) time.Time {
	return e.Start(loc).Add(-time.Duration(e.NotifyMinutes) * time.Minute)
}

// HasNotification returns true if the event wants a notification
func (e Event) HasNotification() bool {
	return e.NotifyMinutes > 0
}

func (e Event) Schedule() Schedule {
	return Schedule{Date: e.Date, Time: e.Time, NotifyMinutes: e.NotifyMinutes}
}

// EventDraft is unvalidated user input for creating or editing an event
type EventDraft struct {
	Title         string
	Date          string // YYYY-MM-DD
	Time          string // HH:MM
	NotifyMinutes int

	// UID of the calendar entry the draft was imported from, empty for user input
	UID string
}

// DraftOf converts an event back into editable form
func DraftOf(e Event) EventDraft {
	return EventDraft{
		Title:         e.Title,
		Date:          e.Date.String(),
		Time:          e.Time.String(),
		NotifyMinutes: e.NotifyMinutes,
	}
}

// Validate checks the draft and returns the event fields it describes.
// The returned event has no ID.
func (d EventDraft) Validate() (Event, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return Event{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	if strings.TrimSpace(d.Date) == "" {
		return Event{}, &ValidationError{Field: "date", Reason: "must not be empty"}
	}
	date, err := ParseDate(d.Date)
	if err != nil {
		return Event{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("expected YYYY-MM-DD, got %q", d.Date)}
	}

	if strings.TrimSpace(d.Time) == "" {
		return Event{}, &ValidationError{Field: "time", Reason: "must not be empty"}
	}
	clock, err := ParseClockTime(d.Time)
	if err != nil {
		return Event{}, &ValidationError{Field: "time", Reason: fmt.Sprintf("expected HH:MM, got %q", d.Time)}
	}

	if d.NotifyMinutes < 0 {
		return Event{}, &ValidationError{Field: "notify", Reason: "must not be negative"}
	}

	return Event{
		Title:         title,
		Date:          date,
		Time:          clock,
		NotifyMinutes: d.NotifyMinutes,
	}, nil
}
