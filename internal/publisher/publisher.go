// Package publisher sends fire-and-forget notifications to the device bus. Messages are published at most once:
// there is no acknowledgment and no retry.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrPublish indicates that a message could not be published.
var ErrPublish = errors.New("publish failed")

// Message tells a device which pattern to display, and for how long.
type Message struct {
	Pattern  string `json:"pattern"`
	Duration int    `json:"duration"`
}

// NewMessage returns a Message for the pattern. The duration is sent in whole seconds.
func NewMessage(pattern string, duration time.Duration) Message {
	return Message{Pattern: pattern, Duration: int(duration / time.Second)}
}

func (m Message) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("pattern", m.Pattern),
		slog.Int("duration", m.Duration),
	)
}

// Publisher sends a Message to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg Message) error
}

// Publishers sends each message to all of its publishers. A failing publisher does not prevent the others from
// receiving the message.
type Publishers []Publisher

func (p Publishers) Publish(ctx context.Context, topic string, msg Message) error {
	var errs []error
	for _, publisher := range p {
		if err := publisher.Publish(ctx, topic, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SLog logs each message.
type SLog struct {
	Logger *slog.Logger
}

var _ Publisher = SLog{}

func (s SLog) Publish(_ context.Context, topic string, msg Message) error {
	s.Logger.Info("notification published", "topic", topic, "message", msg)
	return nil
}
