package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/senaicurso/kalendria/pkg/alert"
	"github.com/senaicurso/kalendria/pkg/audio"
	"github.com/senaicurso/kalendria/pkg/calendar"
	"github.com/senaicurso/kalendria/pkg/models"
	"github.com/senaicurso/kalendria/pkg/scheduler"
	"github.com/senaicurso/kalendria/pkg/store"
)

const (
	appID          = "io.kalendria.desktop"
	eventsFileName = "events.json"
)

type Kalendria struct {
	app         fyne.App
	config      *models.Config
	configStore *store.ConfigStore
	events      *store.EventStore
	scheduler   *scheduler.Scheduler
	alerts      *alert.Channel
	player      *audio.Player
	watcher     *store.FileWatcher

	eventsFile string
	loadErr    error

	// Minute the tray menu was last built for
	trayMinute time.Time

	window       *CalendarWindow
	configWindow *ConfigWindow
	cancel       context.CancelFunc
}

func main() {
	var (
		eventsFile = flag.String("events-file", "", "Store events in this JSON file instead of the default one in the app storage")
		importPath = flag.String("import", "", "Import events from an iCalendar file on startup")
		exportPath = flag.String("export", "", "Export all events to an iCalendar file and exit")
	)
	flag.Parse()

	k := &Kalendria{
		app:        app.NewWithID(appID),
		eventsFile: *eventsFile,
	}

	if err := k.initialize(); err != nil {
		log.Fatal(err)
	}

	if *exportPath != "" {
		if err := k.exportFile(*exportPath); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		return
	}

	if *importPath != "" {
		if n, err := k.importFile(*importPath); err != nil {
			log.Printf("Import of %s failed: %v", *importPath, err)
		} else {
			log.Printf("Imported %d events from %s", n, *importPath)
		}
	}

	k.run()
}

func (k *Kalendria) initialize() error {
	k.configStore = store.NewConfigStore(k.app.Preferences())
	k.config = k.configStore.Load()

	// Sync autostart state with config on startup
	if err := setupAutostart(k.config.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	k.openEvents()

	k.player = audio.NewPlayer()
	k.window = NewCalendarWindow(k)
	k.alerts = alert.NewChannel(k.window.banner, k.player)
	k.alerts.Configure(k.config.AlertDuration(), k.config.QueueAlerts, k.config.SoundEnabled)
	k.window.banner.onDismiss = k.alerts.Dismiss

	k.scheduler = scheduler.New(k.events, k.alerts)
	k.scheduler.OnTimersChanged(func(display map[string]string) {
		fyne.Do(func() {
			k.window.setCountdowns(display)
			k.refreshTrayIfStale(time.Now())
		})
	})

	return nil
}

// openEvents loads the event store and watches its file. A store that
// cannot be read leaves the calendar empty and is reported once the UI is up.
func (k *Kalendria) openEvents() {
	k.eventsFile = k.eventsPath()
	backend := store.NewFileBackend(k.eventsFile)
	if moved, err := store.MigrateKey(store.NewPreferencesBackend(k.app.Preferences()), backend, store.EventsKey); err != nil {
		log.Printf("Warning: failed to move events out of the app preferences: %v", err)
	} else if moved {
		log.Printf("Moved stored events from the app preferences to %s", k.eventsFile)
	}
	log.Printf("Using events file %s", k.eventsFile)

	k.events = store.NewEventStore(backend)
	if err := k.events.Load(); err != nil {
		// Start empty; the unreadable document is copied aside before the
		// first change replaces it
		log.Printf("[STORE] %v", err)
		k.loadErr = err
		if backupPath, backupErr := backend.Backup(".unreadable"); backupErr == nil {
			k.loadErr = fmt.Errorf("%w\nA copy was saved to %s", err, backupPath)
		} else {
			log.Printf("[STORE] Failed to back up %s: %v", k.eventsFile, backupErr)
		}
	}

	if err := os.MkdirAll(filepath.Dir(k.eventsFile), 0o700); err != nil {
		log.Printf("Warning: failed to create %s: %v", filepath.Dir(k.eventsFile), err)
	}
	watcher, err := store.NewFileWatcher(k.eventsFile, k.reloadEvents)
	if err != nil {
		log.Printf("Warning: not watching %s for changes: %v", k.eventsFile, err)
	} else {
		k.watcher = watcher
	}
}

func (k *Kalendria) run() {
	ctx, cancel := context.WithCancel(context.Background())
	k.cancel = cancel

	k.app.Lifecycle().SetOnStarted(func() {
		k.events.OnChange(func() {
			fyne.Do(k.refresh)
		})

		k.setupSystemTray()
		k.refresh()
		k.scheduler.Start(ctx)

		if k.loadErr != nil {
			k.window.showLoadError(k.loadErr)
		}
	})
	k.app.Lifecycle().SetOnStopped(k.shutdown)

	k.window.Show()
	k.app.Run()
}

// refresh re-renders the month grid and the selected day and re-syncs the
// scheduler with the events now on display. Runs on the fyne thread.
func (k *Kalendria) refresh() {
	k.window.refresh()
	k.updateSystemTrayMenu()
}

// eventsPath returns the -events-file path or the default file in the app storage
func (k *Kalendria) eventsPath() string {
	if k.eventsFile != "" {
		return k.eventsFile
	}
	return filepath.Join(k.app.Storage().RootURI().Path(), eventsFileName)
}

func (k *Kalendria) reloadEvents() {
	if err := k.events.Load(); err != nil {
		log.Printf("[STORE] Failed to reload events after external change: %v", err)
	}
}

func (k *Kalendria) showConfigWindow() {
	// If config window already exists and is showing, just bring it to front
	if k.configWindow != nil {
		k.configWindow.window.RequestFocus()
		k.configWindow.window.Show()
		return
	}

	k.configWindow = NewConfigWindow(k, func(newConfig *models.Config) {
		k.config = newConfig
		k.configStore.Save(newConfig)
		k.alerts.Configure(newConfig.AlertDuration(), newConfig.QueueAlerts, newConfig.SoundEnabled)
	})
	k.configWindow.window.SetOnClosed(func() {
		k.configWindow = nil
	})

	k.configWindow.Show()
}

// importEvents adds every supported event of an iCalendar document
func (k *Kalendria) importEvents(r io.Reader) (int, error) {
	drafts, err := calendar.Import(r)
	if err != nil {
		return 0, err
	}
	added, err := k.events.AddAll(drafts)
	return len(added), err
}

// exportEvents writes the whole collection as an iCalendar document
func (k *Kalendria) exportEvents(w io.Writer) (int, error) {
	events := k.events.All()
	if err := calendar.Export(w, events); err != nil {
		return 0, err
	}
	return len(events), nil
}

func (k *Kalendria) importFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return k.importEvents(f)
}

func (k *Kalendria) exportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	n, err := k.exportEvents(f)
	if err != nil {
		f.Close()
		return err
	}
	log.Printf("Exported %d events to %s", n, path)
	return f.Close()
}

func (k *Kalendria) shutdown() {
	if k.cancel != nil {
		k.cancel()
	}
	k.scheduler.Stop()
	k.scheduler.CancelAll()
	k.player.Stop()
	if k.watcher != nil {
		k.watcher.Close()
	}
}

func (k *Kalendria) quit() {
	k.app.Quit()
}
