package main

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/senaicurso/kalendria/pkg/models"
)

var notifyOptions = []string{"0", "5", "10", "15", "30", "60", "120"}

// showEventDialog opens the event form. A nil event creates a new one on
// the selected date.
func (cw *CalendarWindow) showEventDialog(existing *models.Event) {
	draft := models.EventDraft{
		Date:          cw.selected.String(),
		NotifyMinutes: cw.k.config.DefaultNotifyMinutes,
	}
	title, confirm := "New Event", "Create"
	if existing != nil {
		draft = models.DraftOf(*existing)
		title, confirm = "Edit Event", "Save"
	}

	titleEntry := widget.NewEntry()
	titleEntry.SetPlaceHolder("e.g., Dentist")
	titleEntry.SetText(draft.Title)

	dateEntry := widget.NewEntry()
	dateEntry.SetPlaceHolder("YYYY-MM-DD")
	dateEntry.SetText(draft.Date)

	timeEntry := widget.NewEntry()
	timeEntry.SetPlaceHolder("HH:MM")
	timeEntry.SetText(draft.Time)

	notifyEntry := widget.NewSelectEntry(notifyOptions)
	notifyEntry.SetText(strconv.Itoa(draft.NotifyMinutes))

	notifyItem := widget.NewFormItem("Notify (min before)", notifyEntry)
	notifyItem.HintText = "0 turns the notification off"

	items := []*widget.FormItem{
		widget.NewFormItem("Title", titleEntry),
		widget.NewFormItem("Date", dateEntry),
		widget.NewFormItem("Time", timeEntry),
		notifyItem,
	}

	dialog.ShowForm(title, confirm, "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}

		notify, err := parseNotifyMinutes(notifyEntry.Text)
		if err != nil {
			dialog.ShowError(err, cw.window)
			return
		}

		input := models.EventDraft{
			Title:         titleEntry.Text,
			Date:          dateEntry.Text,
			Time:          timeEntry.Text,
			NotifyMinutes: notify,
		}

		var saved models.Event
		if existing == nil {
			saved, err = cw.k.events.Add(input)
		} else {
			saved, err = cw.k.events.Update(existing.ID, input)
		}

		// A persistence failure still leaves the change in memory
		if saved.ID != "" && saved.Date != cw.selected {
			cw.selectDate(saved.Date)
		}
		cw.handleStoreError(err)
	}, cw.window)
}

// parseNotifyMinutes reads the notify field, where blank means no notification
func parseNotifyMinutes(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}

	minutes, err := strconv.Atoi(text)
	if err != nil {
		return 0, &models.ValidationError{Field: "notify", Reason: "must be a whole number of minutes"}
	}
	if minutes < 0 {
		return 0, &models.ValidationError{Field: "notify", Reason: "must not be negative"}
	}
	return minutes, nil
}
