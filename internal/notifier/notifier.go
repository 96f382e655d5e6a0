// Package notifier implements notifiers: scheduled units that announce an event on the device bus.
//
// A Rescheduling notifier announces the event it prepared during its previous invocation, then looks up the next
// event and reprograms its own trigger to fire when that event starts. A Fixed notifier announces the same
// pattern every time it fires.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"github.com/clambin/aws4home/internal/event"
	"github.com/clambin/aws4home/internal/planner"
	"github.com/clambin/aws4home/internal/publisher"
	"github.com/clambin/aws4home/internal/selector"
	"github.com/clambin/aws4home/internal/state"
	"github.com/clambin/aws4home/pkg/pubsub"
	"log/slog"
	"time"
)

// ErrStaleTrigger indicates that the selected event starts before the trigger could fire.
var ErrStaleTrigger = errors.New("trigger is not in the future")

// Source returns the candidate events, ordered as the provider lists them.
type Source interface {
	Fetch(ctx context.Context) (event.Events, error)
}

// Store persists the state of the next cycle.
type Store interface {
	Read(ctx context.Context, prefix string) (state.CycleState, error)
	Write(ctx context.Context, prefix string, s state.CycleState) error
}

// Applicator replaces the notifier's schedule.
type Applicator interface {
	Apply(ctx context.Context, id string, spec planner.TriggerSpec) error
}

// Publisher sends a notification to the device bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg publisher.Message) error
}

// Rescheduling is a notifier that reschedules itself to fire at the start of the next event.
//
// Errors fetching or selecting events fail the invocation. Since the trigger is then left unchanged, the
// notifier fires again at its previous schedule. Errors reading or writing state, applying the trigger or
// publishing the notification are logged and otherwise ignored.
type Rescheduling struct {
	// Name identifies the notifier. It names the notifier's schedule and its state records.
	Name    string
	Pattern string
	Topic   string
	// Duration is announced if the notifier has no Store, or its state can't be read.
	Duration   time.Duration
	Source     Source
	Selector   selector.Selector
	Store      Store
	Applicator Applicator
	Publisher  Publisher
	Logger     *slog.Logger
	Metrics    *Metrics
	Results    *pubsub.Publisher[Result]
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Run performs one invocation of the notifier.
func (r *Rescheduling) Run(ctx context.Context) error {
	logger := r.Logger.With("invocation", InvocationID(ctx))
	result := Result{Notifier: r.Name, Time: now(r.Now)}

	err := r.run(ctx, &result, logger)
	result.setOutcome(err)
	r.Metrics.observe(result)
	if r.Results != nil {
		r.Results.Publish(result)
	}
	switch {
	case err == nil:
	case errors.Is(err, selector.ErrNoEvent):
		logger.Info("no next event found. not rescheduling", "policy", r.Selector.Policy)
		err = nil
	default:
		logger.Error("invocation failed", "err", err)
	}
	return err
}

func (r *Rescheduling) run(ctx context.Context, result *Result, logger *slog.Logger) error {
	current := r.currentState(ctx, logger)
	result.Announced = publisher.NewMessage(r.Pattern, current.Duration)
	if err := r.Publisher.Publish(ctx, r.Topic, result.Announced); err != nil {
		logger.Warn("failed to publish notification", "err", err)
		result.Warnings = append(result.Warnings, err.Error())
	}

	events, err := r.Source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	logger.Debug("events received", "events", events)

	next, err := r.Selector.Select(events, result.Time)
	if err != nil {
		return fmt.Errorf("select (%s): %w", r.Selector.Policy, err)
	}
	logger.Debug("next event selected", "event", next)
	result.Next = &next

	trigger := planner.Plan(next.Start)
	if !trigger.Time().After(result.Time) {
		logger.Warn("not rescheduling", "trigger", trigger, "err", ErrStaleTrigger)
		result.Warnings = append(result.Warnings, ErrStaleTrigger.Error())
		return nil
	}
	if err = r.Applicator.Apply(ctx, r.Name, trigger); err != nil {
		logger.Warn("failed to reschedule", "trigger", trigger, "err", err)
		result.Warnings = append(result.Warnings, err.Error())
	} else {
		result.Trigger = trigger.Expression()
		logger.Info("rescheduled", "trigger", trigger)
	}

	if r.Store != nil {
		nextState := state.CycleState{Duration: next.Duration(), Start: next.Start.UTC()}
		if err = r.Store.Write(ctx, r.Name, nextState); err != nil {
			logger.Warn("failed to store next state", "state", nextState, "err", err)
			result.Warnings = append(result.Warnings, err.Error())
		}
	}
	return nil
}

func (r *Rescheduling) currentState(ctx context.Context, logger *slog.Logger) state.CycleState {
	if r.Store == nil {
		return state.CycleState{Duration: r.Duration}
	}
	current, err := r.Store.Read(ctx, r.Name)
	if err != nil {
		logger.Warn("failed to read current state. using default duration", "err", err)
		return state.CycleState{Duration: r.Duration}
	}
	logger.Debug("current state", "state", current)
	return current
}

func now(f func() time.Time) time.Time {
	if f == nil {
		return time.Now()
	}
	return f()
}

// Fixed is a notifier that announces the same pattern, for the same duration, every time it fires.
type Fixed struct {
	Name      string
	Pattern   string
	Topic     string
	Duration  time.Duration
	Publisher Publisher
	Logger    *slog.Logger
	Metrics   *Metrics
	Results   *pubsub.Publisher[Result]
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Run performs one invocation of the notifier. Publishing errors are logged, not returned.
func (f *Fixed) Run(ctx context.Context) error {
	result := Result{
		Notifier:  f.Name,
		Time:      now(f.Now),
		Announced: publisher.NewMessage(f.Pattern, f.Duration),
	}
	if err := f.Publisher.Publish(ctx, f.Topic, result.Announced); err != nil {
		f.Logger.Warn("failed to publish notification", "invocation", InvocationID(ctx), "err", err)
		result.Warnings = append(result.Warnings, err.Error())
	}
	result.setOutcome(nil)
	f.Metrics.observe(result)
	if f.Results != nil {
		f.Results.Publish(result)
	}
	return nil
}
