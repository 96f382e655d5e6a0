package scheduler_test

import (
	"errors"
	"fmt"
	"github.com/clambin/aws4home/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestTaskError(t *testing.T) {
	when := time.Date(2022, time.October, 2, 19, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		err  *scheduler.TaskError
		want string
	}{
		{name: "reason", err: &scheduler.TaskError{Err: errors.New("err1")}, want: "task failed: err1"},
		{name: "no reason", err: &scheduler.TaskError{}, want: "task failed"},
		{name: "scheduled", err: &scheduler.TaskError{When: when, Err: errors.New("err1")}, want: "task scheduled at 2022-10-02T19:30:00Z failed: err1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, scheduler.ErrFailed)
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestTaskError_Unwrap(t *testing.T) {
	reason := errors.New("err1")
	err := fmt.Errorf("failed: %w", &scheduler.TaskError{Err: reason})
	assert.ErrorIs(t, err, scheduler.ErrFailed)
	assert.ErrorIs(t, err, reason)
	assert.Equal(t, "failed: task failed: err1", err.Error())

	var taskErr *scheduler.TaskError
	assert.True(t, errors.As(err, &taskErr))
	assert.Equal(t, reason, taskErr.Err)
}
