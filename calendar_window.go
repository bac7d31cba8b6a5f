package main

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/senaicurso/kalendria/pkg/models"
	"github.com/senaicurso/kalendria/pkg/ui/components"
)

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type CalendarWindow struct {
	k      *Kalendria
	window fyne.Window
	banner *AlertBanner

	// First day of the displayed month
	month    models.Date
	selected models.Date

	monthLabel *widget.Label
	grid       *fyne.Container
	dayLabel   *widget.Label
	dayEvents  *components.EventList
}

func NewCalendarWindow(k *Kalendria) *CalendarWindow {
	today := models.Today()

	cw := &CalendarWindow{
		k:        k,
		selected: today,
		month:    firstOfMonth(today),
	}

	cw.window = k.app.NewWindow("Kalendria")
	cw.banner = NewAlertBanner(cw.window)
	cw.buildUI()

	return cw
}

func (cw *CalendarWindow) buildUI() {
	cw.monthLabel = widget.NewLabel("")
	cw.monthLabel.TextStyle = fyne.TextStyle{Bold: true}
	cw.monthLabel.Alignment = fyne.TextAlignCenter

	prevButton := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		cw.changeMonth(-1)
	})
	nextButton := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
		cw.changeMonth(1)
	})
	todayButton := widget.NewButton("Today", func() {
		cw.selectDate(models.Today())
	})

	header := container.NewBorder(nil, nil,
		container.NewHBox(prevButton, todayButton),
		nextButton,
		cw.monthLabel,
	)

	cw.grid = container.NewGridWithColumns(7)

	cw.dayLabel = widget.NewLabel("")
	cw.dayLabel.TextStyle = fyne.TextStyle{Bold: true}

	var dayList *fyne.Container
	cw.dayEvents, dayList = components.NewEventList(components.EventListConfig{
		OnEdit: func(event models.Event) {
			cw.showEventDialog(&event)
		},
		OnDelete: func(event models.Event) {
			cw.deleteEvent(event)
		},
		EmptyLabel: "No events on this day",
	})

	newButton := widget.NewButtonWithIcon("New Event", theme.ContentAddIcon(), func() {
		cw.showEventDialog(nil)
	})
	newButton.Importance = widget.HighImportance

	settingsButton := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		cw.k.showConfigWindow()
	})

	dayHeader := container.NewBorder(nil, nil, nil,
		container.NewHBox(newButton, settingsButton),
		cw.dayLabel,
	)

	dayPanel := container.NewBorder(
		container.NewVBox(widget.NewSeparator(), dayHeader),
		nil, nil, nil,
		dayList,
	)

	monthPanel := container.NewBorder(header, nil, nil, nil, cw.grid)

	split := container.NewVSplit(monthPanel, dayPanel)
	split.Offset = 0.55

	content := container.NewBorder(
		cw.banner.content,
		nil,
		nil,
		nil,
		split,
	)

	cw.window.SetContent(container.NewPadded(content))
	cw.window.Resize(fyne.NewSize(720, 760))
	cw.window.CenterOnScreen()

	// Closing the window keeps the app in the tray so reminders still fire
	cw.window.SetCloseIntercept(func() {
		cw.window.Hide()
	})
}

func (cw *CalendarWindow) Show() {
	cw.window.Show()
}

// refresh re-queries the store for the displayed month and selected day
func (cw *CalendarWindow) refresh() {
	cw.renderMonth()
	cw.renderDay()
}

// selectDate shows the events of d and makes them the tracked set
func (cw *CalendarWindow) selectDate(d models.Date) {
	cw.selected = d
	cw.month = firstOfMonth(d)
	cw.refresh()
}

// changeMonth moves the grid without changing the selected day. Only the
// badges are re-queried, the tracked set stays as it is.
func (cw *CalendarWindow) changeMonth(delta int) {
	first := cw.month.Midnight(time.Local).AddDate(0, delta, 0)
	cw.month = models.DateOf(first)
	cw.renderMonth()
}

func (cw *CalendarWindow) renderMonth() {
	first := cw.month.Midnight(time.Local)
	cw.monthLabel.SetText(first.Format("January 2006"))

	counts := cw.k.events.CountByDay(cw.month.Year, cw.month.Month)
	today := models.Today()

	objects := make([]fyne.CanvasObject, 0, 7*7)
	for _, name := range weekdayNames {
		label := widget.NewLabel(name)
		label.Alignment = fyne.TextAlignCenter
		label.Importance = widget.LowImportance
		objects = append(objects, label)
	}

	for _, day := range monthCells(cw.month.Year, cw.month.Month) {
		if day.IsZero() {
			objects = append(objects, layout.NewSpacer())
			continue
		}
		objects = append(objects, cw.dayCell(day, counts[day.Day], today))
	}

	cw.grid.Objects = objects
	cw.grid.Refresh()
}

func (cw *CalendarWindow) dayCell(day models.Date, count int, today models.Date) fyne.CanvasObject {
	button := widget.NewButton(strconv.Itoa(day.Day), func() {
		cw.selectDate(day)
	})

	switch {
	case day == cw.selected:
		button.Importance = widget.HighImportance
	case day == today:
		button.Importance = widget.SuccessImportance
	default:
		button.Importance = widget.LowImportance
	}

	if count == 0 {
		return button
	}

	badge := canvas.NewText(strconv.Itoa(count), theme.Color(theme.ColorNameError))
	badge.TextSize = theme.CaptionTextSize()
	badge.TextStyle = fyne.TextStyle{Bold: true}

	return container.NewStack(
		button,
		container.NewVBox(container.NewHBox(layout.NewSpacer(), badge)),
	)
}

func (cw *CalendarWindow) renderDay() {
	cw.dayLabel.SetText(cw.selected.Midnight(time.Local).Format("Monday, January 2, 2006"))

	events := cw.k.events.ByDate(cw.selected)
	cw.dayEvents.SetEvents(events)
	cw.k.scheduler.Sync(events)
}

func (cw *CalendarWindow) setCountdowns(display map[string]string) {
	cw.dayEvents.SetCountdowns(display)
}

func (cw *CalendarWindow) deleteEvent(event models.Event) {
	err := cw.k.events.Remove(event.ID)
	if err == nil {
		log.Printf("Deleted event \"%s\"", event.Title)
	}
	cw.handleStoreError(err)
}

// handleStoreError reports a failed store operation to the user. Unknown
// IDs are stale rows and are ignored.
func (cw *CalendarWindow) handleStoreError(err error) {
	if err == nil {
		return
	}

	var notFound *models.NotFoundError
	if errors.As(err, &notFound) {
		log.Printf("[STORE] Ignoring stale event: %v", err)
		return
	}

	var persistErr *models.PersistenceError
	if errors.As(err, &persistErr) {
		dialog.ShowError(errors.New("The change is kept for this session but could not be saved:\n"+persistErr.Err.Error()), cw.window)
		return
	}

	dialog.ShowError(err, cw.window)
}

// showLoadError tells the user the stored events could not be read at startup
func (cw *CalendarWindow) showLoadError(err error) {
	dialog.ShowError(fmt.Errorf("Stored events could not be read, starting with an empty calendar.\n%w", err), cw.window)
}

func firstOfMonth(d models.Date) models.Date {
	return models.Date{Year: d.Year, Month: d.Month, Day: 1}
}

// monthCells lays out a month for a Sunday-first grid. Leading cells before
// the 1st are zero Dates.
func monthCells(year int, month time.Month) []models.Date {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cells := make([]models.Date, int(first.Weekday()), int(first.Weekday())+daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		cells = append(cells, models.Date{Year: year, Month: month, Day: day})
	}
	return cells
}
