package trigger

import (
	"context"
	"errors"
	"fmt"
	"github.com/clambin/aws4home/internal/planner"
	"github.com/clambin/aws4home/pkg/scheduler"
	"github.com/robfig/cron/v3"
	"log/slog"
	"sync"
	"time"
)

// Local schedules notifiers in-process. Each notifier is registered with a recurring bootstrap schedule.
// Applying a trigger replaces that schedule with a one-shot job. Invocations of the same notifier never overlap:
// a firing that finds the notifier still running is skipped.
type Local struct {
	cron      *cron.Cron
	schedules map[string]*localSchedule
	logger    *slog.Logger
	ctx       context.Context
	lock      sync.Mutex
}

type localSchedule struct {
	task    scheduler.Task
	entryID cron.EntryID
	job     *scheduler.Job
	spec    planner.TriggerSpec
	running sync.Mutex
}

// NewLocal returns a Local scheduler. Recurring schedules are evaluated in the provided location.
func NewLocal(loc *time.Location, logger *slog.Logger) *Local {
	return &Local{
		cron:      cron.New(cron.WithLocation(loc), cron.WithLogger(cronLogger{logger: logger})),
		schedules: make(map[string]*localSchedule),
		logger:    logger,
		ctx:       context.Background(),
	}
}

// Register adds a notifier with its bootstrap schedule, in standard cron format, or a descriptor like "@every 15m".
// An empty schedule registers the notifier without a recurring schedule.
func (l *Local) Register(id string, schedule string, task scheduler.Task) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if _, ok := l.schedules[id]; ok {
		return fmt.Errorf("%s already registered", id)
	}
	s := localSchedule{task: task}
	if schedule != "" {
		var err error
		if s.entryID, err = l.cron.AddFunc(schedule, func() { _ = l.fire(id) }); err != nil {
			return fmt.Errorf("schedule %s: %w", id, err)
		}
	}
	l.schedules[id] = &s
	return nil
}

// Apply replaces the notifier's schedule with a one-shot job at the trigger's time.
func (l *Local) Apply(ctx context.Context, id string, spec planner.TriggerSpec) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	s, ok := l.schedules[id]
	if !ok {
		return fmt.Errorf("%w: %s not registered", ErrScheduleUpdate, id)
	}
	if s.entryID != 0 {
		l.cron.Remove(s.entryID)
		s.entryID = 0
	}
	if s.job != nil {
		s.job.Cancel()
	}
	// the job must outlive the invocation that scheduled it
	s.job = scheduler.At(context.WithoutCancel(ctx), scheduler.TaskFunc(func(_ context.Context) error {
		return l.fire(id)
	}), spec.Time())
	s.spec = spec
	l.logger.Debug("trigger applied", "id", id, "trigger", spec)
	return nil
}

// Describe returns the trigger last applied to the notifier. If that trigger fired and the notifier failed,
// the trigger is returned with an error that matches scheduler.ErrFailed.
func (l *Local) Describe(_ context.Context, id string) (planner.TriggerSpec, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	s, ok := l.schedules[id]
	if !ok || s.job == nil {
		return planner.TriggerSpec{}, fmt.Errorf("%w: no trigger for %s", ErrScheduleUpdate, id)
	}
	if done, err := s.job.Result(); done && errors.Is(err, scheduler.ErrFailed) {
		return s.spec, fmt.Errorf("%s: %w", id, err)
	}
	return s.spec, nil
}

// Run starts the recurring schedules and runs until ctx is canceled.
func (l *Local) Run(ctx context.Context) error {
	l.lock.Lock()
	l.ctx = ctx
	l.lock.Unlock()

	l.logger.Debug("started", "schedules", len(l.cron.Entries()))
	defer l.logger.Debug("stopped")

	l.cron.Start()
	<-ctx.Done()
	<-l.cron.Stop().Done()

	l.lock.Lock()
	defer l.lock.Unlock()
	for _, s := range l.schedules {
		if s.job != nil {
			s.job.Cancel()
		}
	}
	return nil
}

func (l *Local) fire(id string) error {
	l.lock.Lock()
	ctx := l.ctx
	s, ok := l.schedules[id]
	l.lock.Unlock()
	if !ok {
		return nil
	}
	if !s.running.TryLock() {
		l.logger.Warn("notifier still running. skipping", "id", id)
		return nil
	}
	defer s.running.Unlock()
	err := s.task.Run(ctx)
	if err != nil {
		l.logger.Error("notifier failed", "id", id, "err", err)
	}
	return err
}

// cronLogger adapts a slog.Logger to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.logger.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.logger.Error(msg, append(keysAndValues, "err", err)...)
}
