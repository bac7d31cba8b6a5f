package calendar

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/senaicurso/kalendria/pkg/models"
)

// Import reads VEVENTs from an iCalendar document and returns them as drafts
// ready for the event store. The first alarm of an event becomes its
// notification lead time and its UID is kept on the draft. Recurring,
// all-day and undated events are skipped.
func Import(r io.Reader) ([]models.EventDraft, error) {
	br := bufio.NewReader(r)
	if err := validateICalFormat(br); err != nil {
		return nil, err
	}

	decoder := ical.NewDecoder(br)
	drafts := []models.EventDraft{}
	seenKeys := make(map[string]bool)
	stats := &importStats{}

	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			stats.totalEvents++

			draft, ok := parseEvent(comp, stats)
			if !ok {
				continue
			}

			key := draft.Title + "|" + draft.Date + "T" + draft.Time
			if seenKeys[key] {
				stats.skippedDuplicates++
				log.Printf("  [SKIPPED] Duplicate (Title+Time) - Event: \"%s\" (%s %s)", draft.Title, draft.Date, draft.Time)
				continue
			}
			seenKeys[key] = true

			drafts = append(drafts, draft)
		}
	}

	stats.logSummary(len(drafts))
	return drafts, nil
}

func parseEvent(comp *ical.Component, stats *importStats) (models.EventDraft, bool) {
	title := ""
	if summary := comp.Props.Get(ical.PropSummary); summary != nil {
		if text, err := summary.Text(); err == nil {
			title = strings.TrimSpace(text)
		} else {
			title = strings.TrimSpace(summary.Value)
		}
	}

	if comp.Props.Get(ical.PropRecurrenceRule) != nil {
		stats.skippedRecurring++
		log.Printf("  [SKIPPED] Recurring - Event: \"%s\"", title)
		return models.EventDraft{}, false
	}

	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		stats.skippedMissingTime++
		log.Printf("  [SKIPPED] Missing start - Event: \"%s\"", title)
		return models.EventDraft{}, false
	}
	if startProp.ValueType() == ical.ValueDate || len(startProp.Value) == len("20060102") {
		stats.skippedAllDay++
		log.Printf("  [SKIPPED] All-day - Event: \"%s\"", title)
		return models.EventDraft{}, false
	}

	start, err := startProp.DateTime(time.Local)
	if err != nil {
		stats.skippedMissingTime++
		log.Printf("  [SKIPPED] Unparseable start %q - Event: \"%s\": %v", startProp.Value, title, err)
		return models.EventDraft{}, false
	}
	start = start.In(time.Local)

	if title == "" {
		title = "(untitled)"
	}

	uid := ""
	if prop := comp.Props.Get(ical.PropUID); prop != nil {
		uid = strings.TrimSpace(prop.Value)
	}

	return models.EventDraft{
		Title:         title,
		Date:          start.Format("2006-01-02"),
		Time:          start.Format("15:04"),
		NotifyMinutes: alarmMinutes(comp, start),
		UID:           uid,
	}, true
}

// alarmMinutes returns the lead time of the first alarm before the start,
// or 0 when the event has none
func alarmMinutes(comp *ical.Component, start time.Time) int {
	for _, child := range comp.Children {
		if child.Name != ical.CompAlarm {
			continue
		}
		trigger := child.Props.Get(ical.PropTrigger)
		if trigger == nil {
			continue
		}

		if trigger.ValueType() == ical.ValueDateTime {
			at, err := trigger.DateTime(time.Local)
			if err != nil {
				continue
			}
			if lead := start.Sub(at); lead > 0 {
				return int(lead / time.Minute)
			}
			continue
		}

		lead, err := parseTriggerDuration(trigger.Value)
		if err != nil {
			log.Printf("  [WARN] Unsupported alarm trigger %q: %v", trigger.Value, err)
			continue
		}
		// Triggers are relative to the start, negative means before it
		if lead < 0 {
			return int(-lead / time.Minute)
		}
	}
	return 0
}

var durationPattern = regexp.MustCompile(`^([+-])?P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseTriggerDuration parses an RFC 5545 duration such as -PT15M or -P1DT2H
func parseTriggerDuration(value string) (time.Duration, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	unsigned := strings.TrimLeft(normalized, "+-")
	matches := durationPattern.FindStringSubmatch(normalized)
	if matches == nil || unsigned == "P" || strings.HasSuffix(unsigned, "T") {
		return 0, fmt.Errorf("invalid duration %q", value)
	}

	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, unit := range units {
		if matches[i+2] == "" {
			continue
		}
		n, err := strconv.Atoi(matches[i+2])
		if err != nil {
			return 0, err
		}
		total += time.Duration(n) * unit
	}

	if matches[1] == "-" {
		total = -total
	}
	return total, nil
}

func validateICalFormat(br *bufio.Reader) error {
	head, _ := br.Peek(512)
	trimmed := strings.TrimSpace(strings.TrimPrefix(string(head), "\ufeff"))
	upper := strings.ToUpper(trimmed)

	// Check if the file is HTML instead of iCalendar
	if strings.HasPrefix(upper, "<!DOCTYPE") || strings.HasPrefix(upper, "<HTML") {
		return fmt.Errorf("received HTML instead of iCalendar data")
	}

	if !strings.HasPrefix(upper, "BEGIN:VCALENDAR") {
		previewLen := 100
		if len(trimmed) < previewLen {
			previewLen = len(trimmed)
		}
		return fmt.Errorf("invalid iCalendar format - expected BEGIN:VCALENDAR, got: %s", trimmed[:previewLen])
	}

	return nil
}

type importStats struct {
	totalEvents        int
	skippedRecurring   int
	skippedAllDay      int
	skippedMissingTime int
	skippedDuplicates  int
}

func (s *importStats) logSummary(includedCount int) {
	skipped := s.skippedRecurring + s.skippedAllDay + s.skippedMissingTime + s.skippedDuplicates
	log.Printf("  [SUMMARY] Events: %d, Imported: %d, Skipped: %d", s.totalEvents, includedCount, skipped)
	if skipped > 0 {
		log.Printf("  Skipped breakdown: %d recurring, %d all-day, %d missing time, %d duplicates",
			s.skippedRecurring, s.skippedAllDay, s.skippedMissingTime, s.skippedDuplicates)
	}
}
