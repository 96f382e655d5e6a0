// Package scheduler runs a task once, at a given point in time.
package scheduler

import (
	"context"
	"sync"
	"time"
)

// Task is the work performed by a Job.
type Task interface {
	Run(ctx context.Context) error
}

// TaskFunc adapts a function to a Task.
type TaskFunc func(ctx context.Context) error

func (f TaskFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// At schedules the task to run at the provided time. If that time has passed, the task runs immediately.
// Canceling ctx cancels the job.
func At(ctx context.Context, task Task, when time.Time) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{
		task:   task,
		when:   when,
		state:  stateScheduled,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go j.run(ctx)
	return j
}

// Job is a task scheduled to run once.
type Job struct {
	task   Task
	when   time.Time
	state  state
	cancel context.CancelFunc
	done   chan struct{}
	err    error
	lock   sync.RWMutex
}

func (j *Job) run(ctx context.Context) {
	defer close(j.done)
	timer := time.NewTimer(time.Until(j.when))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		j.setState(stateCanceled, ErrCanceled)
	case <-timer.C:
		j.setState(stateRunning, nil)
		if err := j.task.Run(ctx); err != nil {
			j.setState(stateFailed, &TaskError{When: j.when, Err: err})
			return
		}
		j.setState(stateCompleted, nil)
	}
}

// When returns the time at which the job is scheduled to run.
func (j *Job) When() time.Time {
	return j.when
}

// Cancel cancels the job. A running task sees its context canceled.
func (j *Job) Cancel() {
	j.cancel()
}

// Done returns a channel that is closed once the job has completed, failed or was canceled.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Result reports whether the job is done and, if so, why. Failed jobs return an error that matches ErrFailed
// and wraps the task's error. Canceled jobs return ErrCanceled.
func (j *Job) Result() (bool, error) {
	j.lock.RLock()
	defer j.lock.RUnlock()
	return j.state.done(), j.err
}

func (j *Job) setState(s state, err error) {
	j.lock.Lock()
	defer j.lock.Unlock()
	// a job canceled while running keeps its outcome
	if j.state.done() {
		return
	}
	j.state = s
	j.err = err
}

type state int

const (
	stateScheduled state = iota
	stateRunning
	stateCanceled
	stateCompleted
	stateFailed
)

func (s state) done() bool {
	return s == stateCompleted || s == stateFailed || s == stateCanceled
}
