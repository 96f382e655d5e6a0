// Package state stores the data a notifier needs to announce its next event: the event's start time and duration.
//
// Stores offer no transactional guarantees between a Read and the following Write. Concurrent invocations of
// the same notifier must be prevented by the caller.
package state

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// ErrStoreUnavailable indicates that the backend could not be read or written.
var ErrStoreUnavailable = errors.New("state store unavailable")

const (
	durationField = "duration"
	startField    = "risetime"
)

// CycleState describes the event the next invocation of a notifier will announce. Stores keep Start in UTC,
// at second resolution.
type CycleState struct {
	Duration time.Duration
	Start    time.Time
}

func (s CycleState) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("duration", s.Duration),
		slog.Time("start", s.Start),
	)
}

// RecordName returns the name of the record holding a field of a notifier's state, e.g. duration.iss.example.com.
func RecordName(field, prefix, domain string) string {
	return field + "." + prefix + "." + domain
}

func formatDuration(d time.Duration) string {
	return strconv.Itoa(int(d / time.Second))
}

func parseDuration(value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(strings.Trim(value, `"`))
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	return time.Duration(seconds) * time.Second, nil
}

func formatStart(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// older records hold the start time in "2006-01-02 15:04:05-07:00" format.
var startLayouts = []string{time.RFC3339, "2006-01-02 15:04:05-07:00"}

func parseStart(value string) (time.Time, error) {
	value = strings.Trim(value, `"`)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start time %q", value)
}
