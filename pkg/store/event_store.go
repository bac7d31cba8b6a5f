package store

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/senaicurso/kalendria/pkg/models"
)

// EventsKey is the backend key the serialized collection lives under
const EventsKey = "events"

// EventStore owns the event collection and persists it on every mutation
type EventStore struct {
	mu sync.RWMutex

	backend Backend

	// Events in insertion order, display order depends on it
	events []models.Event
	// Stored records that failed to decode, written back untouched
	unreadable []json.RawMessage

	listeners []func()
	newID     func() string
}

// NewEventStore creates an empty store backed by backend. Call Load to read
// previously saved events.
func NewEventStore(backend Backend) *EventStore {
	return &EventStore{
		backend: backend,
		events:  []models.Event{},
		newID:   func() string { return uuid.New().String() },
	}
}

// OnChange registers fn to be called after every mutation or reload
func (es *EventStore) OnChange(fn func()) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.listeners = append(es.listeners, fn)
}

// Load replaces the in-memory collection with the one in the backend.
// Records without an ID (written before IDs existed) get a fresh one, which
// is saved right away so later reloads see the same IDs. Records that cannot
// be read are skipped but kept in the stored document.
func (es *EventStore) Load() error {
	data, err := es.backend.Load(EventsKey)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	var records []json.RawMessage
	if len(data) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("failed to parse stored events: %w", err)
		}
	}

	loaded := make([]models.Event, 0, len(records))
	var unreadable []json.RawMessage
	for i, raw := range records {
		event, err := decodeStoredEvent(raw)
		if err != nil {
			log.Printf("[STORE] Skipping stored event %d: %v", i+1, err)
			unreadable = append(unreadable, raw)
			continue
		}
		loaded = append(loaded, event)
	}

	seen := make(map[string]bool, len(loaded))
	assigned := 0
	for i := range loaded {
		if loaded[i].ID == "" || seen[loaded[i].ID] {
			loaded[i].ID = es.newID()
			assigned++
		}
		seen[loaded[i].ID] = true
	}

	es.mu.Lock()
	es.events = loaded
	es.unreadable = unreadable
	if assigned > 0 {
		log.Printf("[STORE] Assigned IDs to %d stored events without a unique ID", assigned)
		// The failure is already logged, the IDs stay valid for this session
		_ = es.persistLocked("assign ids")
	}
	es.mu.Unlock()

	log.Printf("[STORE] Loaded %d events", len(loaded))
	es.notify()
	return nil
}

// Add validates draft, stores it under a new ID and persists the collection
func (es *EventStore) Add(draft models.EventDraft) (models.Event, error) {
	event, err := draft.Validate()
	if err != nil {
		return models.Event{}, err
	}

	es.mu.Lock()
	event.ID = es.newID()
	es.events = append(es.events, event)
	err = es.persistLocked("add")
	es.mu.Unlock()

	es.notify()
	return event, err
}

// AddAll validates every draft first and only then stores them all,
// persisting once. Used by calendar import. A draft carrying a UID is
// stored under that UID, or skipped when an event with that ID exists.
func (es *EventStore) AddAll(drafts []models.EventDraft) ([]models.Event, error) {
	validated := make([]models.Event, 0, len(drafts))
	for i, draft := range drafts {
		event, err := draft.Validate()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		validated = append(validated, event)
	}

	es.mu.Lock()
	taken := make(map[string]bool, len(es.events)+len(validated))
	for _, event := range es.events {
		taken[event.ID] = true
	}

	added := make([]models.Event, 0, len(validated))
	for i, event := range validated {
		uid := drafts[i].UID
		switch {
		case uid != "" && taken[uid]:
			continue
		case uid != "":
			event.ID = uid
		default:
			event.ID = es.newID()
			for taken[event.ID] {
				event.ID = es.newID()
			}
		}
		taken[event.ID] = true
		added = append(added, event)
	}

	if skipped := len(validated) - len(added); skipped > 0 {
		log.Printf("[STORE] Skipped %d imported events that are already stored", skipped)
	}
	if len(added) == 0 {
		es.mu.Unlock()
		return added, nil
	}

	es.events = append(es.events, added...)
	err := es.persistLocked("import")
	es.mu.Unlock()

	es.notify()
	return added, err
}

// Update replaces the fields of an existing event, keeping its ID and position
func (es *EventStore) Update(id string, draft models.EventDraft) (models.Event, error) {
	event, err := draft.Validate()
	if err != nil {
		return models.Event{}, err
	}

	es.mu.Lock()
	idx := es.indexOf(id)
	if idx < 0 {
		es.mu.Unlock()
		return models.Event{}, &models.NotFoundError{ID: id}
	}
	event.ID = id
	es.events[idx] = event
	err = es.persistLocked("update")
	es.mu.Unlock()

	es.notify()
	return event, err
}

// Remove deletes an event by ID
func (es *EventStore) Remove(id string) error {
	es.mu.Lock()
	idx := es.indexOf(id)
	if idx < 0 {
		es.mu.Unlock()
		return &models.NotFoundError{ID: id}
	}
	es.events = append(es.events[:idx], es.events[idx+1:]...)
	err := es.persistLocked("remove")
	es.mu.Unlock()

	es.notify()
	return err
}

// Get returns the current state of an event
func (es *EventStore) Get(id string) (models.Event, bool) {
	es.mu.RLock()
	defer es.mu.RUnlock()

	idx := es.indexOf(id)
	if idx < 0 {
		return models.Event{}, false
	}
	return es.events[idx], true
}

// ByDate returns the events on date in insertion order
func (es *EventStore) ByDate(date models.Date) []models.Event {
	es.mu.RLock()
	defer es.mu.RUnlock()

	result := []models.Event{}
	for _, event := range es.events {
		if event.Date == date {
			result = append(result, event)
		}
	}
	return result
}

// All returns a copy of the whole collection in insertion order
func (es *EventStore) All() []models.Event {
	es.mu.RLock()
	defer es.mu.RUnlock()

	result := make([]models.Event, len(es.events))
	copy(result, es.events)
	return result
}

// CountByDay returns the number of events per day of the given month
func (es *EventStore) CountByDay(year int, month time.Month) map[int]int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	counts := make(map[int]int)
	for _, event := range es.events {
		if event.Date.Year == year && event.Date.Month == month {
			counts[event.Date.Day]++
		}
	}
	return counts
}

func (es *EventStore) indexOf(id string) int {
	for i, event := range es.events {
		if event.ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the whole collection followed by any records Load
// could not read. The caller holds es.mu.
func (es *EventStore) persistLocked(op string) error {
	records := make([]any, 0, len(es.events)+len(es.unreadable))
	for _, event := range es.events {
		records = append(records, event)
	}
	for _, raw := range es.unreadable {
		records = append(records, raw)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return &models.PersistenceError{Op: op, Err: err}
	}
	if err := es.backend.Save(EventsKey, data); err != nil {
		log.Printf("[STORE] Failed to persist events after %s: %v", op, err)
		return &models.PersistenceError{Op: op, Err: err}
	}
	return nil
}

func (es *EventStore) notify() {
	es.mu.RLock()
	listeners := make([]func(), len(es.listeners))
	copy(listeners, es.listeners)
	es.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

// storedEvent is the persisted shape of an event. Older versions wrote the
// lead time as whatever number the form produced, so notify is read loosely.
type storedEvent struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Date   string          `json:"date"`
	Time   string          `json:"time"`
	Notify json.RawMessage `json:"notify"`
}

func decodeStoredEvent(raw json.RawMessage) (models.Event, error) {
	var stored storedEvent
	if err := json.Unmarshal(raw, &stored); err != nil {
		return models.Event{}, err
	}

	minutes, err := parseStoredNotify(stored.Notify)
	if err != nil {
		return models.Event{}, err
	}

	event, err := models.EventDraft{
		Title:         stored.Title,
		Date:          stored.Date,
		Time:          stored.Time,
		NotifyMinutes: minutes,
	}.Validate()
	if err != nil {
		return models.Event{}, err
	}
	event.ID = stored.ID
	return event, nil
}

// parseStoredNotify accepts a number, a numeric string or null. Fractions
// are floored and negative values mean no notification.
func parseStoredNotify(raw json.RawMessage) (int, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0, nil
	}

	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0, fmt.Errorf("notify: unsupported value %s", text)
		}
		if strings.TrimSpace(s) == "" {
			return 0, nil
		}
		value, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return 0, fmt.Errorf("notify: unsupported value %s", text)
		}
	}

	if value <= 0 {
		return 0, nil
	}
	if value > math.MaxInt32 {
		return 0, fmt.Errorf("notify: %s minutes is out of range", text)
	}
	return int(math.Floor(value)), nil
}
