// Package selector picks the next relevant event from a list of candidate events.
package selector

import (
	"errors"
	"fmt"
	"github.com/clambin/aws4home/internal/event"
	"time"
)

var (
	// ErrNoEvent indicates that none of the candidates qualifies. Callers treat this as a no-op for the cycle.
	ErrNoEvent = errors.New("no next event found")
	// ErrIndexOutOfRange indicates that LookAheadOne found a qualifying event, but no event follows it.
	ErrIndexOutOfRange = errors.New("no event follows the first qualifying event")
)

// Policy is the lead-time policy used to pick the next event.
type Policy int

const (
	// FirstFuture selects the earliest event that starts after now.
	FirstFuture Policy = iota
	// NearButNotTooNear selects the first event in the list that starts more than Threshold after now.
	NearButNotTooNear
	// LookAheadOne finds the first event in the list that starts more than Threshold after now
	// and selects the event following it. The source must return events in order.
	LookAheadOne
)

var policyNames = map[Policy]string{
	FirstFuture:       "first",
	NearButNotTooNear: "near",
	LookAheadOne:      "lookahead",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParsePolicy returns the Policy for its name.
func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("invalid policy %q", s)
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(text []byte) (err error) {
	*p, err = ParsePolicy(string(text))
	return err
}

// Selector applies a Policy to a list of candidate events. Threshold is ignored by FirstFuture.
type Selector struct {
	Policy    Policy
	Threshold time.Duration
}

// Select returns the next relevant event. It returns ErrNoEvent if no candidate qualifies.
func (s Selector) Select(candidates event.Events, now time.Time) (event.Event, error) {
	switch s.Policy {
	case FirstFuture:
		return firstFuture(candidates, now)
	case NearButNotTooNear:
		if i := s.firstBeyondThreshold(candidates, now); i >= 0 {
			return candidates[i], nil
		}
		return event.Event{}, ErrNoEvent
	case LookAheadOne:
		i := s.firstBeyondThreshold(candidates, now)
		if i < 0 {
			return event.Event{}, ErrNoEvent
		}
		if i+1 >= len(candidates) {
			return event.Event{}, fmt.Errorf("event %d of %d: %w", i, len(candidates), ErrIndexOutOfRange)
		}
		return candidates[i+1], nil
	default:
		return event.Event{}, fmt.Errorf("invalid policy %d", s.Policy)
	}
}

func firstFuture(candidates event.Events, now time.Time) (event.Event, error) {
	next := -1
	for i, candidate := range candidates {
		if !candidate.Start.After(now) {
			continue
		}
		if next == -1 || candidate.Start.Before(candidates[next].Start) {
			next = i
		}
	}
	if next == -1 {
		return event.Event{}, ErrNoEvent
	}
	return candidates[next], nil
}

func (s Selector) firstBeyondThreshold(candidates event.Events, now time.Time) int {
	for i, candidate := range candidates {
		if candidate.Start.Sub(now) > s.Threshold {
			return i
		}
	}
	return -1
}
