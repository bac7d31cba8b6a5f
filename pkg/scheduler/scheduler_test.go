package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/senaicurso/kalendria/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu     sync.Mutex
	events map[string]models.Event
}

func newFakeSource(events ...models.Event) *fakeSource {
	fs := &fakeSource{events: make(map[string]models.Event)}
	for _, e := range events {
		fs.events[e.ID] = e
	}
	return fs
}

func (fs *fakeSource) Get(id string) (models.Event, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	e, ok := fs.events[id]
	return e, ok
}

func (fs *fakeSource) put(e models.Event) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.events[e.ID] = e
}

func (fs *fakeSource) remove(id string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.events, id)
}

type recordingAlerter struct {
	mu    sync.Mutex
	texts []string
}

func (ra *recordingAlerter) Show(text string) {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	ra.texts = append(ra.texts, text)
}

func (ra *recordingAlerter) shown() []string {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	return append([]string(nil), ra.texts...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (fc *fakeClock) Now() time.Time {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.now
}

func (fc *fakeClock) Set(t time.Time) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.now = t
}

func at(hour, minute, second int) time.Time {
	return time.Date(2024, time.May, 10, hour, minute, second, 0, time.UTC)
}

func event(id, title, clock string, notify int) models.Event {
	e, err := models.EventDraft{Title: title, Date: "2024-05-10", Time: clock, NotifyMinutes: notify}.Validate()
	if err != nil {
		panic(err)
	}
	e.ID = id
	return e
}

type harness struct {
	source  *fakeSource
	alerts  *recordingAlerter
	clock   *fakeClock
	sched   *Scheduler
	renders []map[string]string
}

func newHarness(now time.Time, events ...models.Event) *harness {
	h := &harness{
		source: newFakeSource(events...),
		alerts: &recordingAlerter{},
		clock:  &fakeClock{now: now},
	}
	h.sched = New(h.source, h.alerts, WithClock(h.clock.Now), WithLocation(time.UTC))
	h.sched.OnTimersChanged(func(display map[string]string) {
		h.renders = append(h.renders, display)
	})
	return h
}

func TestDentistScenario(t *testing.T) {
	dentist := event("dentist", "Dentist", "09:00", 10)
	h := newHarness(at(8, 49, 30), dentist)

	h.sched.Sync([]models.Event{dentist})
	assert.Equal(t, "0m 30s", h.sched.DisplayText("dentist"))

	timer, ok := h.sched.Timer("dentist")
	require.True(t, ok)
	assert.Equal(t, at(8, 50, 0), timer.FireAt)
	assert.Equal(t, models.TimerPending, timer.State)

	h.clock.Set(at(8, 49, 45))
	h.sched.Tick()
	assert.Equal(t, "0m 15s", h.sched.DisplayText("dentist"))
	assert.Empty(t, h.alerts.shown())

	h.clock.Set(at(8, 50, 5))
	h.sched.Tick()
	assert.Equal(t, FiredText, h.sched.DisplayText("dentist"))
	assert.Equal(t, []string{`Reminder: "Dentist" is about to start!`}, h.alerts.shown())

	timer, _ = h.sched.Timer("dentist")
	assert.Equal(t, models.TimerFired, timer.State)
	assert.True(t, timer.Terminal())

	h.clock.Set(at(8, 50, 6))
	h.sched.Tick()
	assert.Len(t, h.alerts.shown(), 1, "a notification fires at most once")
}

func TestNoNotificationGetsNoTimer(t *testing.T) {
	lunch := event("lunch", "Lunch", "12:00", 0)
	h := newHarness(at(11, 0, 0), lunch)

	h.sched.Sync([]models.Event{lunch})

	_, ok := h.sched.Timer("lunch")
	assert.False(t, ok)
	assert.Empty(t, h.sched.DisplayText("lunch"))
	assert.Empty(t, h.renders)
}

func TestPastFireTimeFiresOnNextTick(t *testing.T) {
	meeting := event("meeting", "Meeting", "09:00", 10)
	h := newHarness(at(10, 0, 0), meeting)

	h.sched.Sync([]models.Event{meeting})
	assert.Empty(t, h.alerts.shown(), "arming never fires synchronously")

	h.sched.Tick()
	assert.Equal(t, []string{`Reminder: "Meeting" is about to start!`}, h.alerts.shown())

	h.sched.Sync([]models.Event{meeting})
	h.sched.Tick()
	assert.Len(t, h.alerts.shown(), 1, "re-syncing a fired event does not re-arm it")
}

func TestSyncIsIdempotent(t *testing.T) {
	a := event("a", "A", "09:00", 10)
	b := event("b", "B", "10:00", 5)
	h := newHarness(at(8, 0, 0), a, b)

	h.sched.Sync([]models.Event{a, b})
	first := h.sched.Timers()
	renders := len(h.renders)

	h.sched.Sync([]models.Event{a, b})
	assert.Equal(t, first, h.sched.Timers())
	assert.Len(t, h.renders, renders, "an unchanged sync does not re-render")
}

func TestSyncCancelsDroppedEvents(t *testing.T) {
	a := event("a", "A", "09:00", 10)
	b := event("b", "B", "10:00", 5)
	h := newHarness(at(8, 0, 0), a, b)

	h.sched.Sync([]models.Event{a, b})
	h.sched.Sync([]models.Event{b})

	_, ok := h.sched.Timer("a")
	assert.False(t, ok)
	assert.Empty(t, h.sched.DisplayText("a"))

	h.clock.Set(at(12, 0, 0))
	h.sched.Tick()
	assert.Equal(t, []string{`Reminder: "B" is about to start!`}, h.alerts.shown())
}

func TestSyncReschedulesEditedEvent(t *testing.T) {
	a := event("a", "A", "09:00", 10)
	h := newHarness(at(8, 0, 0), a)
	h.sched.Sync([]models.Event{a})

	edited := event("a", "A", "11:00", 15)
	h.source.put(edited)
	h.sched.Sync([]models.Event{edited})

	timer, ok := h.sched.Timer("a")
	require.True(t, ok)
	assert.Equal(t, at(10, 45, 0), timer.FireAt)

	h.clock.Set(at(9, 0, 0))
	h.sched.Tick()
	assert.Empty(t, h.alerts.shown(), "the old fire time no longer applies")
}

func TestSyncCancelsWhenNotificationTurnedOff(t *testing.T) {
	a := event("a", "A", "09:00", 10)
	h := newHarness(at(8, 0, 0), a)
	h.sched.Sync([]models.Event{a})

	off := event("a", "A", "09:00", 0)
	h.sched.Sync([]models.Event{off})

	_, ok := h.sched.Timer("a")
	assert.False(t, ok)
}

func TestTickCancelsEventDeletedFromSource(t *testing.T) {
	a := event("a", "A", "09:00", 10)
	h := newHarness(at(8, 0, 0), a)
	h.sched.Sync([]models.Event{a})

	h.source.remove("a")
	h.clock.Set(at(9, 0, 0))
	h.sched.Tick()

	assert.Empty(t, h.alerts.shown())
	_, ok := h.sched.Timer("a")
	assert.False(t, ok)
}

func TestTickFollowsEditsWithoutSync(t *testing.T) {
	a := event("a", "A", "09:00", 10)
	h := newHarness(at(8, 0, 0), a)
	h.sched.Sync([]models.Event{a})

	h.source.put(event("a", "A renamed", "09:30", 10))

	h.clock.Set(at(8, 55, 0))
	h.sched.Tick()
	assert.Empty(t, h.alerts.shown())
	assert.Equal(t, "25m 0s", h.sched.DisplayText("a"))

	h.clock.Set(at(9, 20, 0))
	h.sched.Tick()
	assert.Equal(t, []string{`Reminder: "A renamed" is about to start!`}, h.alerts.shown())
}

func TestSimultaneousTimersFireInOrder(t *testing.T) {
	late := event("late", "Late", "09:05", 5)
	early := event("early", "Early", "09:00", 10)
	h := newHarness(at(8, 0, 0), late, early)
	h.sched.Sync([]models.Event{late, early})

	h.clock.Set(at(10, 0, 0))
	h.sched.Tick()

	assert.Equal(t, []string{
		`Reminder: "Early" is about to start!`,
		`Reminder: "Late" is about to start!`,
	}, h.alerts.shown())
}

func TestCancelAll(t *testing.T) {
	a := event("a", "A", "09:00", 10)
	h := newHarness(at(8, 0, 0), a)
	h.sched.Sync([]models.Event{a})

	h.sched.CancelAll()

	assert.Empty(t, h.sched.Timers())
	require.NotEmpty(t, h.renders)
	assert.Empty(t, h.renders[len(h.renders)-1])

	h.clock.Set(at(10, 0, 0))
	h.sched.Tick()
	assert.Empty(t, h.alerts.shown())
}

func TestTickRendersCountdowns(t *testing.T) {
	a := event("a", "A", "09:00", 10)
	h := newHarness(at(8, 40, 0), a)
	h.sched.Sync([]models.Event{a})

	h.clock.Set(at(8, 44, 59))
	h.sched.Tick()

	require.NotEmpty(t, h.renders)
	assert.Equal(t, map[string]string{"a": "5m 1s"}, h.renders[len(h.renders)-1])
}

func TestStartStop(t *testing.T) {
	a := event("a", "A", "09:00", 10)
	source := newFakeSource(a)
	alerts := &recordingAlerter{}
	sched := New(source, alerts,
		WithClock(func() time.Time { return at(12, 0, 0) }),
		WithLocation(time.UTC),
		WithTickInterval(10*time.Millisecond))
	sched.Sync([]models.Event{a})

	sched.Start(context.Background())
	defer sched.Stop()

	assert.Eventually(t, func() bool { return len(alerts.shown()) == 1 }, time.Second, 5*time.Millisecond)

	sched.Stop()
	sched.Stop()
	assert.Len(t, alerts.shown(), 1)
}
