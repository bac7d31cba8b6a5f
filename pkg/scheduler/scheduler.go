package scheduler

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/senaicurso/kalendria/pkg/models"
)

// DefaultTickInterval is how often pending countdowns are re-evaluated
const DefaultTickInterval = time.Second

// EventSource resolves a tracked event to its current state
type EventSource interface {
	Get(id string) (models.Event, bool)
}

// Alerter delivers a fired notification to the user
type Alerter interface {
	Show(text string)
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock replaces the wall clock, used by tests
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithLocation sets the zone event dates and times are interpreted in
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		s.loc = loc
	}
}

// WithTickInterval changes the period of the background tick
func WithTickInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		s.interval = interval
	}
}

// Scheduler keeps one notification countdown per tracked event.
//
// Sync, Tick and CancelAll hold the scheduler lock for their whole state
// change, so they never interleave: once Sync drops an event no later tick
// can fire it. Callbacks run after the lock is released.
type Scheduler struct {
	mu sync.Mutex

	events EventSource
	alerts Alerter

	now      func() time.Time
	loc      *time.Location
	interval time.Duration

	// Map of event ID to its countdown. Fired timers stay here while the
	// event is tracked so re-syncing never arms a delivered alert again.
	timers map[string]*models.Timer

	// Map of event ID to the text shown next to the event
	display map[string]string

	onTimersChanged func(map[string]string)

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a scheduler that resolves events from events and delivers
// alerts to alerts
func New(events EventSource, alerts Alerter, opts ...Option) *Scheduler {
	s := &Scheduler{
		events:   events,
		alerts:   alerts,
		now:      time.Now,
		loc:      time.Local,
		interval: DefaultTickInterval,
		timers:   make(map[string]*models.Timer),
		display:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnTimersChanged registers the collaborator that re-renders countdown text.
// It receives a fresh map of event ID to display text.
func (s *Scheduler) OnTimersChanged(fn func(map[string]string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTimersChanged = fn
}

// Sync reconciles the tracked timers against events. New events with a
// notification get a pending timer, events that disappeared or turned
// notifications off are cancelled, and events whose date, time or lead time
// changed are cancelled and re-armed. Calling it twice with the same set is
// a no-op.
func (s *Scheduler) Sync(events []models.Event) {
	s.mu.Lock()

	present := make(map[string]models.Event, len(events))
	for _, event := range events {
		present[event.ID] = event
	}

	changed := false
	for id, timer := range s.timers {
		event, ok := present[id]
		switch {
		case !ok:
			s.cancelLocked(id, "no longer displayed")
			changed = true
		case !event.HasNotification():
			s.cancelLocked(id, "notification turned off")
			changed = true
		case event.Schedule() != timer.Schedule:
			s.cancelLocked(id, "rescheduled")
			changed = true
		}
	}

	for _, event := range events {
		if !event.HasNotification() {
			continue
		}
		if _, tracked := s.timers[event.ID]; tracked {
			continue
		}
		s.armLocked(event)
		changed = true
	}

	var snapshot map[string]string
	notify := s.onTimersChanged
	if changed {
		snapshot = s.displaySnapshotLocked()
	}
	s.mu.Unlock()

	if changed && notify != nil {
		notify(snapshot)
	}
}

// Tick advances every pending countdown against the current time. Each
// tracked event is re-read from the event source first so edits made since
// the last Sync are honoured. Due timers fire exactly once, earliest first.
func (s *Scheduler) Tick() {
	s.mu.Lock()

	now := s.now()

	ids := make([]string, 0, len(s.timers))
	for id, timer := range s.timers {
		if timer.State == models.TimerPending {
			ids = append(ids, id)
		}
	}

	titles := make(map[string]string, len(ids))
	pending := make([]*models.Timer, 0, len(ids))
	for _, id := range ids {
		event, ok := s.events.Get(id)
		if !ok {
			s.cancelLocked(id, "event deleted")
			continue
		}
		if !event.HasNotification() {
			s.cancelLocked(id, "notification turned off")
			continue
		}
		if event.Schedule() != s.timers[id].Schedule {
			s.cancelLocked(id, "rescheduled")
			s.armLocked(event)
		}
		titles[id] = event.Title
		pending = append(pending, s.timers[id])
	}

	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].FireAt.Equal(pending[j].FireAt) {
			return pending[i].FireAt.Before(pending[j].FireAt)
		}
		return pending[i].EventID < pending[j].EventID
	})

	var fired []string
	for _, timer := range pending {
		remaining := timer.FireAt.Sub(now)
		if remaining > 0 {
			s.display[timer.EventID] = FormatRemaining(remaining)
			continue
		}

		timer.State = models.TimerFired
		s.display[timer.EventID] = FiredText
		fired = append(fired, AlertText(titles[timer.EventID]))
		log.Printf("[SCHEDULER] Fired notification for \"%s\" (due %s, late by %s)",
			titles[timer.EventID], timer.FireAt.Format("2006-01-02 15:04:05"), (-remaining).Truncate(time.Second))
	}

	snapshot := s.displaySnapshotLocked()
	notify := s.onTimersChanged
	s.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}
	for _, text := range fired {
		s.alerts.Show(text)
	}
}

// CancelAll stops every timer without firing any alert
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	for id := range s.timers {
		s.cancelLocked(id, "cancel all")
	}
	notify := s.onTimersChanged
	s.mu.Unlock()

	if notify != nil {
		notify(map[string]string{})
	}
}

// Timers returns a snapshot of the tracked timers ordered by fire time
func (s *Scheduler) Timers() []models.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.Timer, 0, len(s.timers))
	for _, timer := range s.timers {
		result = append(result, *timer)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].FireAt.Equal(result[j].FireAt) {
			return result[i].FireAt.Before(result[j].FireAt)
		}
		return result[i].EventID < result[j].EventID
	})
	return result
}

// Timer returns the timer tracked for an event
func (s *Scheduler) Timer(eventID string) (models.Timer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[eventID]
	if !ok {
		return models.Timer{}, false
	}
	return *timer, true
}

// DisplayText returns the countdown text for an event, empty if untracked
func (s *Scheduler) DisplayText(eventID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display[eventID]
}

// Start runs Tick periodically until ctx is cancelled or Stop is called
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	interval := s.interval
	s.mu.Unlock()

	log.Printf("[SCHEDULER] Started (interval: %v)", interval)

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	}()
}

// Stop halts the periodic tick and waits for it to exit
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Println("[SCHEDULER] Stopped")
}

// armLocked creates a pending timer for event. The caller holds s.mu.
func (s *Scheduler) armLocked(event models.Event) {
	timer := &models.Timer{
		EventID:  event.ID,
		FireAt:   event.NotifyAt(s.loc),
		State:    models.TimerPending,
		Schedule: event.Schedule(),
	}
	s.timers[event.ID] = timer

	// A past fire time is left for the next tick rather than dropped
	if remaining := timer.FireAt.Sub(s.now()); remaining > 0 {
		s.display[event.ID] = FormatRemaining(remaining)
	} else {
		s.display[event.ID] = ""
	}

	log.Printf("[SCHEDULER] Armed timer for \"%s\" at %s", event.Title, timer.FireAt.Format("2006-01-02 15:04"))
}

// cancelLocked cancels and discards a timer. The caller holds s.mu.
func (s *Scheduler) cancelLocked(id, reason string) {
	timer, ok := s.timers[id]
	if !ok {
		return
	}
	if timer.State == models.TimerPending {
		timer.State = models.TimerCancelled
		log.Printf("[SCHEDULER] Cancelled timer for event %s (%s)", id, reason)
	}
	delete(s.timers, id)
	delete(s.display, id)
}

func (s *Scheduler) displaySnapshotLocked() map[string]string {
	snapshot := make(map[string]string, len(s.display))
	for id, text := range s.display {
		snapshot[id] = text
	}
	return snapshot
}
