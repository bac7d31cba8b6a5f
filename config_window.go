package main

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/senaicurso/kalendria/pkg/models"
	"github.com/senaicurso/kalendria/pkg/scheduler"
)

type ConfigWindow struct {
	window fyne.Window
	k      *Kalendria
	config *models.Config
	onSave func(*models.Config)

	// General tab
	autoStartCheck *widget.Check
	soundCheck     *widget.Check

	// Alert tab
	defaultNotifySelect *widget.Select
	alertDurationSelect *widget.Select
	queueCheck          *widget.Check

	// Events tab
	eventsTable     *widget.Table
	eventsData      []eventDisplayInfo
	eventsContainer *fyne.Container

	// Calendar tab
	calendarStatusLabel *widget.Label

	// UI state
	hasUnsavedChanges bool
	saveStatusLabel   *widget.Label
	saveButton        *widget.Button
}

func NewConfigWindow(k *Kalendria, onSave func(*models.Config)) *ConfigWindow {
	cw := &ConfigWindow{
		k:      k,
		config: k.config,
		onSave: onSave,
	}

	cw.window = k.app.NewWindow("Kalendria - Settings")
	cw.buildUI()

	return cw
}

func (cw *ConfigWindow) buildUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("General", cw.buildGeneralTab()),
		container.NewTabItem("Alert", cw.buildAlertTab()),
		container.NewTabItem("Events", cw.buildEventsTab()),
		container.NewTabItem("Calendar", cw.buildCalendarTab()),
	)
	// Building the tabs fires the widgets' change callbacks
	cw.hasUnsavedChanges = false

	tabs.OnSelected = func(tab *container.TabItem) {
		if tab.Text == "Events" {
			cw.refreshEventsData()
		}
	}

	// Save status label
	cw.saveStatusLabel = widget.NewLabel("")
	cw.saveStatusLabel.Importance = widget.SuccessImportance

	cw.saveButton = widget.NewButton("Save", func() {
		cw.save()
	})
	cw.saveButton.Importance = widget.HighImportance
	cw.saveButton.Disable() // Initially disabled until changes are made

	previewButton := widget.NewButton("Preview Alert", func() {
		cw.k.alerts.Show(scheduler.AlertText("Sample event"))
	})

	closeButton := widget.NewButton("Close", func() {
		cw.handleClose()
	})

	buttonRow := container.NewBorder(
		nil,
		nil,
		container.NewHBox(cw.saveButton, cw.saveStatusLabel),
		container.NewHBox(previewButton, closeButton),
		container.NewHBox(),
	)

	content := container.NewBorder(
		nil,
		container.NewPadded(buttonRow),
		nil,
		nil,
		tabs,
	)

	cw.window.SetContent(content)
	cw.window.Resize(fyne.NewSize(760, 560))
	cw.window.CenterOnScreen()

	// Escape closes the window
	cw.window.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		if key.Name == fyne.KeyEscape {
			cw.handleClose()
		}
	})

	// Add close interceptor for unsaved changes
	cw.window.SetCloseIntercept(func() {
		cw.handleClose()
	})
}

func (cw *ConfigWindow) save() {
	cw.saveButton.Disable()
	cw.saveStatusLabel.SetText("Saving...")
	cw.saveStatusLabel.Importance = widget.MediumImportance
	cw.saveStatusLabel.Refresh()

	newConfig := cw.getConfigFromUI()
	go func() {
		// Handle autostart setting
		if err := setupAutostart(newConfig.AutoStart); err != nil {
			log.Printf("Error setting autostart: %v", err)
			fyne.Do(func() {
				cw.saveStatusLabel.SetText("Error: Failed to set autostart")
				cw.saveStatusLabel.Importance = widget.DangerImportance
				cw.saveStatusLabel.Refresh()
				cw.updateSaveButtonState()
			})
			return
		}

		fyne.Do(func() {
			if cw.onSave != nil {
				cw.onSave(newConfig)
			}
			cw.config = newConfig

			cw.hasUnsavedChanges = false
			cw.saveStatusLabel.SetText("Settings saved successfully")
			cw.saveStatusLabel.Importance = widget.SuccessImportance
			cw.saveStatusLabel.Refresh()
			cw.updateSaveButtonState()

			// Clear success message after 3 seconds
			go func() {
				time.Sleep(3 * time.Second)
				fyne.Do(func() {
					if cw.saveStatusLabel.Text == "Settings saved successfully" {
						cw.saveStatusLabel.SetText("")
						cw.saveStatusLabel.Refresh()
					}
				})
			}()
		})
	}()
}

func (cw *ConfigWindow) getConfigFromUI() *models.Config {
	return &models.Config{
		AutoStart:            cw.autoStartCheck.Checked,
		DefaultNotifyMinutes: parseOption(cw.defaultNotifySelect.Selected, "%d min", cw.config.DefaultNotifyMinutes),
		AlertDurationSeconds: parseOption(cw.alertDurationSelect.Selected, "%d sec", cw.config.AlertDurationSeconds),
		QueueAlerts:          cw.queueCheck.Checked,
		SoundEnabled:         cw.soundCheck.Checked,
	}
}

func (cw *ConfigWindow) Show() {
	cw.window.Show()
}

// markChanged marks the config as having unsaved changes
func (cw *ConfigWindow) markChanged() {
	cw.hasUnsavedChanges = true
	cw.updateSaveButtonState()
}

// updateSaveButtonState enables or disables the save button based on changes
func (cw *ConfigWindow) updateSaveButtonState() {
	if cw.saveButton == nil {
		return
	}
	if cw.hasUnsavedChanges {
		cw.saveButton.Enable()
	} else {
		cw.saveButton.Disable()
	}
}

// handleClose handles window close with unsaved changes check
func (cw *ConfigWindow) handleClose() {
	if *cw.getConfigFromUI() == *cw.config {
		cw.window.Close()
		return
	}

	dialog.ShowConfirm("Unsaved Changes",
		"You have unsaved changes. Are you sure you want to close?",
		func(confirmed bool) {
			if confirmed {
				cw.window.Close()
			}
		}, cw.window)
}

// parseOption reads the number out of a select option such as "10 min",
// falling back when nothing usable is selected
func parseOption(selected, format string, fallback int) int {
	var val int
	if _, err := fmt.Sscanf(selected, format, &val); err != nil || val < 0 {
		return fallback
	}
	return val
}
