package main

import (
	"fmt"
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/senaicurso/kalendria/pkg/models"
)

const trayUpcomingLimit = 5

func (k *Kalendria) setupSystemTray() {
	k.updateSystemTrayMenu()
}

func (k *Kalendria) updateSystemTrayMenu() {
	k.setSystemTrayMenu(time.Now())
}

// refreshTrayIfStale rebuilds the tray menu at most once a minute so
// notifications that have passed drop out of the upcoming list
func (k *Kalendria) refreshTrayIfStale(now time.Time) {
	if now.Truncate(time.Minute).Equal(k.trayMinute) {
		return
	}
	k.setSystemTrayMenu(now)
}

func (k *Kalendria) setSystemTrayMenu(now time.Time) {
	k.trayMinute = now.Truncate(time.Minute)

	desk, ok := k.app.(desktop.App)
	if !ok {
		return
	}
	desk.SetSystemTrayMenu(k.trayMenu(now))
	desk.SetSystemTrayIcon(theme.HistoryIcon())
}

func (k *Kalendria) trayMenu(now time.Time) *fyne.Menu {
	menuItems := []*fyne.MenuItem{}

	// Add upcoming notifications section at the top
	upcoming := upcomingNotifications(k.events.ByDate(models.DateOf(now)), now, trayUpcomingLimit)
	if len(upcoming) > 0 {
		headerItem := fyne.NewMenuItem("Upcoming Today:", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		for _, event := range upcoming {
			item := fyne.NewMenuItem(fmt.Sprintf("  %s - %s (%d min before)",
				event.Time, truncateString(event.Title, 35), event.NotifyMinutes), nil)
			item.Disabled = true
			menuItems = append(menuItems, item)
		}

		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Open Calendar", func() {
			k.window.Show()
			k.window.window.RequestFocus()
		}),
		fyne.NewMenuItem("Settings", func() {
			k.showConfigWindow()
		}),
	)

	quitItem := fyne.NewMenuItem("Quit", k.quit)
	quitItem.IsQuit = true
	menuItems = append(menuItems, fyne.NewMenuItemSeparator(), quitItem)

	return fyne.NewMenu("Kalendria", menuItems...)
}

// upcomingNotifications returns the events whose notification is still due
// after now, soonest first
func upcomingNotifications(events []models.Event, now time.Time, limit int) []models.Event {
	upcoming := []models.Event{}
	for _, event := range events {
		if !event.HasNotification() {
			continue
		}
		if event.NotifyAt(now.Location()).After(now) {
			upcoming = append(upcoming, event)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].NotifyAt(now.Location()).Before(upcoming[j].NotifyAt(now.Location()))
	})

	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// truncateString truncates a string to maxLen characters, adding "..." if needed
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return string(runes)
	}
	return string(runes[:maxLen-3]) + "..."
}
