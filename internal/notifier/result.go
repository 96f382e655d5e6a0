package notifier

import (
	"errors"
	"github.com/clambin/aws4home/internal/event"
	"github.com/clambin/aws4home/internal/publisher"
	"github.com/clambin/aws4home/internal/selector"
	"time"
)

// Outcome summarizes how an invocation ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeNoEvent Outcome = "no_event"
	OutcomeFailed  Outcome = "failed"
)

// Result describes one invocation of a notifier.
type Result struct {
	Notifier  string            `json:"notifier"`
	Time      time.Time         `json:"time"`
	Outcome   Outcome           `json:"outcome"`
	Announced publisher.Message `json:"announced"`
	Next      *event.Event      `json:"next,omitempty"`
	// Trigger holds the schedule expression applied during the invocation, if any.
	Trigger  string   `json:"trigger,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Err      string   `json:"err,omitempty"`
}

func (r *Result) setOutcome(err error) {
	switch {
	case err == nil:
		r.Outcome = OutcomeSuccess
	case errors.Is(err, selector.ErrNoEvent):
		r.Outcome = OutcomeNoEvent
	default:
		r.Outcome = OutcomeFailed
		r.Err = err.Error()
	}
}
