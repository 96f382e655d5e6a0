package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
)

// IoTDataAPI is the subset of the IoT data plane client used by IoT.
type IoTDataAPI interface {
	Publish(context.Context, *iotdataplane.PublishInput, ...func(*iotdataplane.Options)) (*iotdataplane.PublishOutput, error)
}

// IoT publishes messages to an MQTT topic of the IoT message broker, with QoS 0.
type IoT struct {
	Client IoTDataAPI
}

var _ Publisher = IoT{}

func (i IoT) Publish(ctx context.Context, topic string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	_, err = i.Client.Publish(ctx, &iotdataplane.PublishInput{
		Topic:   aws.String(topic),
		Qos:     0,
		Retain:  false,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("%w: iot: %w", ErrPublish, err)
	}
	return nil
}
