package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/souchan25/attendance-go-api/internal/models"
)

// BoundaryLayout is the canonical stored form of an event time boundary.
const BoundaryLayout = "15:04"

const dateLayout = models.RecordDateLayout

// clockLayouts are the accepted bare time-of-day forms, tried in order.
var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"}

// combinedLayouts cover boundaries that were stored with a date component
// by older writers.
var combinedLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
}

// parseBoundary resolves a stored boundary string against the event's date,
// in the given location. Event dates are parsed without a zone, so the
// location must come from the clock doing the comparison, never from the
// stored date. Combined date+time values keep their own date; bare clock
// values take the event's. Unparseable or empty boundaries report ok=false
// so callers treat the boundary as absent rather than as midnight.
func parseBoundary(raw *string, eventDate time.Time, loc *time.Location) (time.Time, bool) {
	if raw == nil {
		return time.Time{}, false
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range combinedLayouts {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts, true
		}
	}

	for _, layout := range clockLayouts {
		clock, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		return time.Date(
			eventDate.Year(), eventDate.Month(), eventDate.Day(),
			clock.Hour(), clock.Minute(), clock.Second(), 0,
			loc,
		), true
	}

	return time.Time{}, false
}

// normalizeBoundary canonicalizes a boundary supplied on event writes. Letter
// o typos in the digits are folded to zero before parsing. An empty input
// stays empty; anything else must resolve to a clock value.
func normalizeBoundary(raw string) (*string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	value = strings.Map(func(r rune) rune {
		if r == 'o' || r == 'O' {
			return '0'
		}
		return r
	}, value)

	for _, layout := range clockLayouts {
		if clock, err := time.Parse(layout, value); err == nil {
			normalized := clock.Format(BoundaryLayout)
			return &normalized, nil
		}
	}

	return nil, fmt.Errorf("invalid time boundary %q, expected HH:mm", raw)
}

// eventWindow resolves all four boundaries of an event for a given location.
type eventWindow struct {
	checkInStart  time.Time
	checkInEnd    time.Time
	checkOutStart time.Time
	checkOutEnd   time.Time

	hasCheckInStart  bool
	hasCheckInEnd    bool
	hasCheckOutStart bool
	hasCheckOutEnd   bool
}

func resolveWindow(event *models.Event, now time.Time) eventWindow {
	loc := now.Location()
	var w eventWindow
	w.checkInStart, w.hasCheckInStart = parseBoundary(event.CheckInStart, event.EventDate, loc)
	w.checkInEnd, w.hasCheckInEnd = parseBoundary(event.CheckInEnd, event.EventDate, loc)
	w.checkOutStart, w.hasCheckOutStart = parseBoundary(event.CheckOutStart, event.EventDate, loc)
	w.checkOutEnd, w.hasCheckOutEnd = parseBoundary(event.CheckOutEnd, event.EventDate, loc)
	return w
}

// hasAny reports whether the event defines at least one boundary.
func (w eventWindow) hasAny() bool {
	return w.hasCheckInStart || w.hasCheckInEnd || w.hasCheckOutStart || w.hasCheckOutEnd
}
