// Package shadow mirrors a device's reported state into its device shadow.
package shadow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"log/slog"
)

// ErrShadowUpdate indicates that the shadow document could not be updated.
var ErrShadowUpdate = errors.New("shadow update failed")

// ShadowAPI is the subset of the IoT data plane client used by Mirror.
type ShadowAPI interface {
	UpdateThingShadow(context.Context, *iotdataplane.UpdateThingShadowInput, ...func(*iotdataplane.Options)) (*iotdataplane.UpdateThingShadowOutput, error)
}

// Mirror writes the payload it receives as the reported state of a named shadow:
//
//	{"state":{"reported":{"<Field>":<payload>}}}
type Mirror struct {
	Client     ShadowAPI
	ThingName  string
	ShadowName string
	Field      string
	Logger     *slog.Logger
}

// Mirror updates the shadow document with the payload. The payload must be valid JSON.
func (m Mirror) Mirror(ctx context.Context, payload json.RawMessage) error {
	if !json.Valid(payload) {
		return fmt.Errorf("%w: payload is not valid json", ErrShadowUpdate)
	}
	document, err := json.Marshal(map[string]any{
		"state": map[string]any{
			"reported": map[string]json.RawMessage{m.Field: payload},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShadowUpdate, err)
	}
	m.Logger.Debug("updating shadow", "thing", m.ThingName, "shadow", m.ShadowName, "document", string(document))

	input := iotdataplane.UpdateThingShadowInput{
		ThingName: aws.String(m.ThingName),
		Payload:   document,
	}
	if m.ShadowName != "" {
		input.ShadowName = aws.String(m.ShadowName)
	}
	if _, err = m.Client.UpdateThingShadow(ctx, &input); err != nil {
		return fmt.Errorf("%w: %w", ErrShadowUpdate, err)
	}
	return nil
}
