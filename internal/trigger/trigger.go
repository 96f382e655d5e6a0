// Package trigger replaces a notifier's schedule with a one-shot trigger.
//
// Each notifier owns exactly one schedule, identified by the notifier's prefix. Applying a trigger overwrites
// that schedule, so applying the same trigger twice results in the same schedule.
package trigger

import (
	"errors"
)

// ErrScheduleUpdate indicates that the schedule could not be read or replaced.
var ErrScheduleUpdate = errors.New("schedule update failed")
