package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// NATSConn is the subset of a nats.Conn used by NATS.
type NATSConn interface {
	Publish(subject string, data []byte) error
}

// NATS publishes messages to a NATS subject. MQTT-style topics ("home/display") are mapped to subjects ("home.display").
type NATS struct {
	Conn NATSConn
}

var _ Publisher = NATS{}

func (n NATS) Publish(_ context.Context, topic string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	if err = n.Conn.Publish(Subject(topic), payload); err != nil {
		return fmt.Errorf("%w: nats: %w", ErrPublish, err)
	}
	return nil
}

// Subject converts an MQTT topic to a NATS subject.
func Subject(topic string) string {
	return strings.ReplaceAll(strings.Trim(topic, "/"), "/", ".")
}
