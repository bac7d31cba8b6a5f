package main

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var icsFilter = storage.NewExtensionFileFilter([]string{".ics"})

func (cw *ConfigWindow) buildCalendarTab() fyne.CanvasObject {
	cw.calendarStatusLabel = widget.NewLabel("")
	cw.calendarStatusLabel.Wrapping = fyne.TextWrapWord

	importButton := widget.NewButtonWithIcon("Import .ics", theme.FolderOpenIcon(), func() {
		openDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, cw.window)
				return
			}
			if reader == nil {
				return
			}
			defer reader.Close()

			n, err := cw.k.importEvents(reader)
			if err != nil {
				log.Printf("Error importing %s: %v", reader.URI().Name(), err)
				cw.setCalendarStatus(fmt.Sprintf("Import of %s failed: %v", reader.URI().Name(), err), widget.DangerImportance)
				return
			}
			cw.setCalendarStatus(fmt.Sprintf("Imported %d events from %s", n, reader.URI().Name()), widget.SuccessImportance)
			cw.refreshEventsData()
		}, cw.window)
		openDialog.SetFilter(icsFilter)
		openDialog.Show()
	})

	exportButton := widget.NewButtonWithIcon("Export .ics", theme.DocumentSaveIcon(), func() {
		saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, cw.window)
				return
			}
			if writer == nil {
				return
			}

			n, err := cw.k.exportEvents(writer)
			if closeErr := writer.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				log.Printf("Error exporting to %s: %v", writer.URI().Name(), err)
				cw.setCalendarStatus(fmt.Sprintf("Export failed: %v", err), widget.DangerImportance)
				return
			}
			cw.setCalendarStatus(fmt.Sprintf("Exported %d events to %s", n, writer.URI().Name()), widget.SuccessImportance)
		}, cw.window)
		saveDialog.SetFileName("kalendria.ics")
		saveDialog.SetFilter(icsFilter)
		saveDialog.Show()
	})

	helpText := widget.NewLabel("Import events from another calendar app or export yours as an iCalendar (.ics) file. Recurring and all-day events are skipped on import.")
	helpText.Wrapping = fyne.TextWrapWord
	helpText.Importance = widget.MediumImportance

	content := container.NewVBox(
		widget.NewLabel("Calendar Settings"),
		widget.NewSeparator(),
		helpText,
		container.NewHBox(importButton, exportButton),
		cw.calendarStatusLabel,
	)

	return container.NewPadded(container.NewVScroll(content))
}

func (cw *ConfigWindow) setCalendarStatus(text string, importance widget.Importance) {
	cw.calendarStatusLabel.SetText(text)
	cw.calendarStatusLabel.Importance = importance
	cw.calendarStatusLabel.Refresh()
}
