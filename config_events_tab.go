package main

import (
	"fmt"
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/senaicurso/kalendria/pkg/models"
	"github.com/senaicurso/kalendria/pkg/scheduler"
)

type eventDisplayInfo struct {
	event       models.Event
	alertStatus string
	reason      string
}

var eventsHeaders = []string{"Event", "Start Time", "Notify", "Alert Status", "Reason"}

func (cw *ConfigWindow) buildEventsTab() fyne.CanvasObject {
	cw.eventsData = cw.getEventsDisplayInfo()

	table := widget.NewTable(
		func() (rows int, cols int) {
			return len(cw.eventsData), len(eventsHeaders)
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("Template")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)

			if id.Row >= len(cw.eventsData) {
				label.SetText("")
				return
			}

			displayInfo := cw.eventsData[id.Row]
			event := displayInfo.event

			switch id.Col {
			case 0:
				label.SetText(event.Title)
			case 1:
				label.SetText(event.Start(time.Local).Format("Mon Jan 2 2006, 15:04"))
			case 2:
				label.SetText(notifyColumn(event))
			case 3:
				label.SetText(displayInfo.alertStatus)
			case 4:
				label.SetText(displayInfo.reason)
			}

			// Gray out past events
			if event.Start(time.Local).Before(time.Now()) {
				label.Importance = widget.LowImportance
			} else {
				label.Importance = widget.MediumImportance
			}

			// Color code alert status
			if id.Col == 3 {
				switch displayInfo.alertStatus {
				case "Fired":
					label.Importance = widget.SuccessImportance
				case "Pending":
					label.Importance = widget.WarningImportance
				}
			}
			label.Refresh()
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		label := widget.NewLabel("Header")
		label.TextStyle.Bold = true
		return label
	}
	table.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		label := obj.(*widget.Label)
		if id.Col >= 0 && id.Col < len(eventsHeaders) {
			label.SetText(eventsHeaders[id.Col])
		}
	}

	for i, width := range []float32{220, 200, 90, 110, 260} {
		table.SetColumnWidth(i, width)
	}

	cw.eventsTable = table

	refreshButton := widget.NewButton("Refresh", func() {
		cw.refreshEventsData()
	})
	refreshButton.Icon = theme.ViewRefreshIcon()

	helpText := widget.NewLabel("Shows every stored event with its notification. Countdowns run for the day selected in the calendar, 'Pending' means the reminder is counting down and 'Fired' means it was shown.")
	helpText.Wrapping = fyne.TextWrapWord
	helpText.Importance = widget.MediumImportance

	headerContent := container.NewVBox(
		widget.NewLabel("Events"),
		widget.NewSeparator(),
		helpText,
		container.NewHBox(refreshButton),
	)

	cw.eventsContainer = container.NewBorder(
		headerContent,
		nil,
		nil,
		nil,
		cw.eventsMainContent(),
	)

	return container.NewPadded(cw.eventsContainer)
}

func (cw *ConfigWindow) eventsMainContent() fyne.CanvasObject {
	if len(cw.eventsData) == 0 {
		emptyStateText := widget.NewLabel("No events yet.\n\nTo get started:\n1. Pick a day in the calendar\n2. Click 'New Event'\n3. Or import an .ics file in the Calendar tab")
		emptyStateText.Wrapping = fyne.TextWrapWord
		emptyStateText.Importance = widget.MediumImportance
		return container.NewPadded(emptyStateText)
	}
	return cw.eventsTable
}

func (cw *ConfigWindow) refreshEventsData() {
	if cw.eventsContainer == nil {
		return
	}

	cw.eventsData = cw.getEventsDisplayInfo()
	if cw.eventsTable != nil {
		cw.eventsTable.Refresh()
	}

	// The center object of a border container comes first
	cw.eventsContainer.Objects[0] = cw.eventsMainContent()
	cw.eventsContainer.Refresh()
}

func (cw *ConfigWindow) getEventsDisplayInfo() []eventDisplayInfo {
	events := cw.k.events.All()
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start(time.Local).Before(events[j].Start(time.Local))
	})

	now := time.Now()
	result := make([]eventDisplayInfo, 0, len(events))
	for _, event := range events {
		timer, tracked := cw.k.scheduler.Timer(event.ID)
		status, reason := determineEventStatus(event, timer, tracked, now)
		result = append(result, eventDisplayInfo{
			event:       event,
			alertStatus: status,
			reason:      reason,
		})
	}
	return result
}

// determineEventStatus describes where an event's notification stands
func determineEventStatus(event models.Event, timer models.Timer, tracked bool, now time.Time) (string, string) {
	if !event.HasNotification() {
		return "Off", "No notification set"
	}

	if tracked {
		switch timer.State {
		case models.TimerFired:
			return "Fired", fmt.Sprintf("Reminder shown at %s", timer.FireAt.Format("15:04"))
		case models.TimerPending:
			if remaining := timer.FireAt.Sub(now); remaining > 0 {
				return "Pending", "Fires in " + scheduler.FormatRemaining(remaining)
			}
			return "Pending", "Due on the next tick"
		}
	}

	notifyAt := event.NotifyAt(now.Location())
	if !notifyAt.After(now) {
		return "Idle", "Notification time has passed"
	}
	return "Idle", fmt.Sprintf("Counts down when %s is shown", event.Date)
}

func notifyColumn(event models.Event) string {
	if !event.HasNotification() {
		return "-"
	}
	return fmt.Sprintf("%d min", event.NotifyMinutes)
}
