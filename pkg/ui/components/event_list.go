package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/senaicurso/kalendria/pkg/models"
)

// EventList shows the events of one day with their notification countdowns
type EventList struct {
	list       *widget.List
	empty      *widget.Label
	events     []models.Event
	countdowns map[string]string
	onEdit     func(models.Event)
	onDelete   func(models.Event)
}

// EventListConfig configures the event list
type EventListConfig struct {
	OnEdit     func(models.Event) // Called when the edit button of a row is tapped
	OnDelete   func(models.Event) // Called when the delete button of a row is tapped
	EmptyLabel string             // Shown when there are no events
}

// NewEventList creates a new event list component
func NewEventList(config EventListConfig) (*EventList, *fyne.Container) {
	el := &EventList{
		events:     []models.Event{},
		countdowns: make(map[string]string),
		onEdit:     config.OnEdit,
		onDelete:   config.OnDelete,
	}

	el.list = widget.NewList(
		func() int {
			return len(el.events)
		},
		func() fyne.CanvasObject {
			title := widget.NewLabel("00:00 - template")
			title.Truncation = fyne.TextTruncateEllipsis

			countdown := widget.NewLabel("")
			countdown.Importance = widget.WarningImportance

			notify := widget.NewLabel("Not set")
			notify.Importance = widget.LowImportance

			editButton := widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), nil)
			deleteButton := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
			deleteButton.Importance = widget.DangerImportance

			return container.NewBorder(nil, nil, nil,
				container.NewHBox(countdown, notify, editButton, deleteButton),
				title)
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= len(el.events) {
				return
			}
			event := el.events[i]

			row := o.(*fyne.Container)
			title := row.Objects[0].(*widget.Label)
			controls := row.Objects[1].(*fyne.Container)
			countdown := controls.Objects[0].(*widget.Label)
			notify := controls.Objects[1].(*widget.Label)
			editButton := controls.Objects[2].(*widget.Button)
			deleteButton := controls.Objects[3].(*widget.Button)

			title.SetText(RowTitle(event))
			countdown.SetText(el.countdowns[event.ID])
			notify.SetText(NotifyText(event))

			editButton.OnTapped = func() {
				if el.onEdit != nil {
					el.onEdit(event)
				}
			}
			deleteButton.OnTapped = func() {
				if el.onDelete != nil {
					el.onDelete(event)
				}
			}
		})

	emptyText := config.EmptyLabel
	if emptyText == "" {
		emptyText = "No events"
	}
	el.empty = widget.NewLabel(emptyText)
	el.empty.Alignment = fyne.TextAlignCenter
	el.empty.Importance = widget.LowImportance

	return el, container.NewStack(el.list, container.NewCenter(el.empty))
}

// SetEvents replaces the displayed events, keeping their order
func (el *EventList) SetEvents(events []models.Event) {
	el.events = append([]models.Event{}, events...)
	if len(el.events) == 0 {
		el.empty.Show()
	} else {
		el.empty.Hide()
	}
	el.list.UnselectAll()
	el.list.Refresh()
}

// SetCountdowns replaces the countdown text shown next to each event
func (el *EventList) SetCountdowns(countdowns map[string]string) {
	el.countdowns = countdowns
	if el.countdowns == nil {
		el.countdowns = make(map[string]string)
	}
	el.list.Refresh()
}

// Events returns the displayed events
func (el *EventList) Events() []models.Event {
	return el.events
}

// Countdown returns the countdown text shown for an event
func (el *EventList) Countdown(eventID string) string {
	return el.countdowns[eventID]
}

// RowTitle renders the "time - title" text of a row
func RowTitle(event models.Event) string {
	return fmt.Sprintf("%s - %s", event.Time, event.Title)
}

// NotifyText renders the notification setting of an event
func NotifyText(event models.Event) string {
	if !event.HasNotification() {
		return "Not set"
	}
	return fmt.Sprintf("Notify: %d min", event.NotifyMinutes)
}
