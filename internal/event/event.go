// Package event holds the candidate events reported by an event source.
package event

import (
	"log/slog"
	"time"
)

// Event is a future occurrence reported by an external data source. End and Label are optional.
type Event struct {
	Start time.Time
	End   time.Time
	Label string
}

// Duration returns the length of the event, in whole seconds. Events without an end time have no duration.
func (e Event) Duration() time.Duration {
	if e.End.IsZero() || e.End.Before(e.Start) {
		return 0
	}
	return e.End.Sub(e.Start).Truncate(time.Second)
}

func (e Event) LogValue() slog.Value {
	attrs := make([]slog.Attr, 1, 3)
	attrs[0] = slog.Time("start", e.Start)
	if !e.End.IsZero() {
		attrs = append(attrs, slog.Duration("duration", e.Duration()))
	}
	if e.Label != "" {
		attrs = append(attrs, slog.String("label", e.Label))
	}
	return slog.GroupValue(attrs...)
}

// Events is an ordered list of candidate events, as returned by the source.
type Events []Event

func (e Events) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 2)
	attrs = append(attrs, slog.Int("count", len(e)))
	if len(e) > 0 {
		attrs = append(attrs, slog.Time("first", e[0].Start))
	}
	return slog.GroupValue(attrs...)
}
