package main

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/senaicurso/kalendria/pkg/platform"
)

// AlertBanner is the strip at the top of the calendar window that shows the
// visible alert message
type AlertBanner struct {
	window    fyne.Window
	text      *widget.Label
	content   *fyne.Container
	onDismiss func()
}

func NewAlertBanner(window fyne.Window) *AlertBanner {
	b := &AlertBanner{window: window}

	b.text = widget.NewLabel("")
	b.text.TextStyle = fyne.TextStyle{Bold: true}
	b.text.Wrapping = fyne.TextWrapWord

	icon := widget.NewIcon(theme.WarningIcon())

	dismissButton := widget.NewButtonWithIcon("Dismiss", theme.CancelIcon(), func() {
		if b.onDismiss != nil {
			b.onDismiss()
		}
	})

	bg := canvas.NewRectangle(theme.Color(theme.ColorNameWarning))
	bg.CornerRadius = theme.InputRadiusSize()

	b.content = container.NewStack(
		bg,
		container.NewPadded(container.NewBorder(nil, nil, icon, dismissButton, b.text)),
	)
	b.content.Hide()

	return b
}

// ShowBanner implements alert.Banner
func (b *AlertBanner) ShowBanner(text string) {
	log.Printf("[ALERT] %s", text)

	fyne.Do(func() {
		b.text.SetText(text)
		b.content.Show()
		b.window.Show()
		b.window.RequestFocus()
		platform.RaiseForAlert()
	})
}

// HideBanner implements alert.Banner
func (b *AlertBanner) HideBanner() {
	fyne.Do(func() {
		b.content.Hide()
		b.text.SetText("")
	})
}
