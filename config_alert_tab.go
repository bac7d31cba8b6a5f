package main

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var (
	defaultNotifyOptions = []string{"0 min", "5 min", "10 min", "15 min", "30 min", "60 min", "120 min"}
	alertDurationOptions = []string{"3 sec", "5 sec", "10 sec", "15 sec", "30 sec", "60 sec"}
)

func (cw *ConfigWindow) buildAlertTab() fyne.CanvasObject {
	cw.defaultNotifySelect = widget.NewSelect(withCurrent(defaultNotifyOptions, cw.config.DefaultNotifyMinutes, " min"), func(value string) {
		cw.markChanged()
	})
	cw.defaultNotifySelect.SetSelected(strconv.Itoa(cw.config.DefaultNotifyMinutes) + " min")

	cw.alertDurationSelect = widget.NewSelect(withCurrent(alertDurationOptions, cw.config.AlertDurationSeconds, " sec"), func(value string) {
		cw.markChanged()
	})
	cw.alertDurationSelect.SetSelected(strconv.Itoa(cw.config.AlertDurationSeconds) + " sec")

	cw.queueCheck = widget.NewCheck("Show simultaneous reminders one after another", func(checked bool) {
		cw.markChanged()
	})
	cw.queueCheck.SetChecked(cw.config.QueueAlerts)

	defaultNotifyLabel := widget.NewLabel("Default Notify:")
	defaultNotifyHelp := widget.NewLabel("Prefilled lead time for new events, 0 means no notification")
	defaultNotifyHelp.Wrapping = fyne.TextWrapWord
	defaultNotifyHelp.Importance = widget.MediumImportance

	durationLabel := widget.NewLabel("Alert Duration:")
	durationHelp := widget.NewLabel("How long a reminder stays on screen")
	durationHelp.Importance = widget.MediumImportance

	queueLabel := widget.NewLabel("Queue Alerts:")
	queueHelp := widget.NewLabel("If unchecked, a new reminder replaces the one on screen")
	queueHelp.Wrapping = fyne.TextWrapWord
	queueHelp.Importance = widget.MediumImportance

	form := container.New(layout.NewFormLayout(),
		container.NewVBox(defaultNotifyLabel, defaultNotifyHelp),
		container.NewVBox(cw.defaultNotifySelect),

		container.NewVBox(durationLabel, durationHelp),
		container.NewVBox(cw.alertDurationSelect),

		container.NewVBox(queueLabel, queueHelp),
		container.NewVBox(cw.queueCheck),
	)

	content := container.NewVBox(
		widget.NewLabel("Alert Settings"),
		widget.NewSeparator(),
		form,
	)

	return container.NewPadded(container.NewVScroll(content))
}

// withCurrent makes sure a configured value outside the presets can still
// be selected
func withCurrent(options []string, current int, suffix string) []string {
	value := strconv.Itoa(current) + suffix
	for _, option := range options {
		if option == value {
			return options
		}
	}
	return append(append([]string{}, options...), value)
}
