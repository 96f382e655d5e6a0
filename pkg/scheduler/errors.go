package scheduler

import (
	"errors"
	"time"
)

var (
	// ErrCanceled is returned by Job.Result when the job was canceled before its task ran.
	ErrCanceled = errors.New("job canceled")
	// ErrFailed matches the error returned by Job.Result when the task returned an error.
	ErrFailed = &TaskError{}
)

// TaskError is returned by Job.Result when the task failed. It records when the task was scheduled to run.
type TaskError struct {
	When time.Time
	Err  error
}

func (e *TaskError) Error() string {
	msg := "task"
	if !e.When.IsZero() {
		msg += " scheduled at " + e.When.UTC().Format(time.RFC3339)
	}
	if e.Err == nil {
		return msg + " failed"
	}
	return msg + " failed: " + e.Err.Error()
}

func (e *TaskError) Is(err error) bool {
	return err == ErrFailed
}

func (e *TaskError) Unwrap() error {
	return e.Err
}
