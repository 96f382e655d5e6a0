package state

import (
	"context"
	"fmt"
	"github.com/redis/go-redis/v9"
)

// Redis stores a notifier's state as a hash, keyed by the notifier's prefix.
type Redis struct {
	Client    redis.UniversalClient
	Namespace string
}

// Read returns the state of the notifier identified by prefix.
func (r Redis) Read(ctx context.Context, prefix string) (CycleState, error) {
	values, err := r.Client.HGetAll(ctx, r.key(prefix)).Result()
	if err != nil {
		return CycleState{}, fmt.Errorf("%w: redis: %w", ErrStoreUnavailable, err)
	}
	duration, ok := values[durationField]
	if !ok {
		return CycleState{}, fmt.Errorf("%w: %s not found", ErrStoreUnavailable, r.key(prefix))
	}
	var s CycleState
	if s.Duration, err = parseDuration(duration); err == nil {
		s.Start, err = parseStart(values[startField])
	}
	if err != nil {
		return CycleState{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return s, nil
}

// Write stores the state of the notifier identified by prefix. Both fields are written in a single command.
func (r Redis) Write(ctx context.Context, prefix string, s CycleState) error {
	err := r.Client.HSet(ctx, r.key(prefix),
		durationField, formatDuration(s.Duration),
		startField, formatStart(s.Start),
	).Err()
	if err != nil {
		return fmt.Errorf("%w: redis: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (r Redis) key(prefix string) string {
	namespace := r.Namespace
	if namespace == "" {
		namespace = "aws4home"
	}
	return namespace + ":" + prefix
}
