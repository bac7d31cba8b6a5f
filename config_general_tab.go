package main

import (
	"log"
	"net/url"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

func (cw *ConfigWindow) buildGeneralTab() fyne.CanvasObject {
	// Auto Start checkbox
	cw.autoStartCheck = widget.NewCheck("Auto Start on System Boot", func(checked bool) {
		cw.markChanged()
	})
	cw.autoStartCheck.SetChecked(cw.config.AutoStart)

	cw.soundCheck = widget.NewCheck("Play a sound with each reminder", func(checked bool) {
		cw.markChanged()
	})
	cw.soundCheck.SetChecked(cw.config.SoundEnabled)

	eventsPath, folder := eventsFileLocation(cw.k.eventsFile)

	storageEntry := widget.NewEntry()
	storageEntry.SetText(eventsPath)
	storageEntry.Disable()

	showFolderButton := widget.NewButtonWithIcon("Show Folder", theme.FolderOpenIcon(), func() {
		if err := cw.k.app.OpenURL(folder); err != nil {
			log.Printf("Error opening events folder: %v", err)
		}
	})

	autoStartLabel := widget.NewLabel("Auto Start:")
	autoStartHelp := widget.NewLabel("Launch Kalendria automatically when your system starts")
	autoStartHelp.Importance = widget.MediumImportance

	soundLabel := widget.NewLabel("Sound:")

	storageLabel := widget.NewLabel("Events File:")
	storageHelp := widget.NewLabel("Settings stay in the app preferences")
	storageHelp.Wrapping = fyne.TextWrapWord
	storageHelp.Importance = widget.MediumImportance

	storageContainer := container.NewBorder(nil, nil, nil, showFolderButton, storageEntry)

	form := container.New(layout.NewFormLayout(),
		container.NewVBox(autoStartLabel, autoStartHelp),
		cw.autoStartCheck,

		soundLabel,
		cw.soundCheck,

		container.NewVBox(storageLabel, storageHelp),
		storageContainer,
	)

	content := container.NewVBox(
		widget.NewLabel("General Settings"),
		widget.NewSeparator(),
		form,
	)

	return container.NewPadded(container.NewVScroll(content))
}

// eventsFileLocation returns the absolute events file path and the URL of
// the folder holding it
func eventsFileLocation(path string) (string, *url.URL) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, &url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Dir(path))}
}
