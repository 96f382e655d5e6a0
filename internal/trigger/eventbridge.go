package trigger

import (
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/clambin/aws4home/internal/planner"
	"time"
)

// EventBridgeAPI is the subset of the EventBridge client used by EventBridge.
type EventBridgeAPI interface {
	PutRule(context.Context, *eventbridge.PutRuleInput, ...func(*eventbridge.Options)) (*eventbridge.PutRuleOutput, error)
	DescribeRule(context.Context, *eventbridge.DescribeRuleInput, ...func(*eventbridge.Options)) (*eventbridge.DescribeRuleOutput, error)
}

// EventBridge schedules notifiers through EventBridge rules. The rule is named after the notifier's prefix and
// targets the notifier's function.
type EventBridge struct {
	Client EventBridgeAPI
	// Descriptions holds the description of each rule, by rule name.
	Descriptions map[string]string
}

// Apply sets the rule's schedule expression to the trigger and enables the rule.
func (e EventBridge) Apply(ctx context.Context, id string, spec planner.TriggerSpec) error {
	_, err := e.Client.PutRule(ctx, &eventbridge.PutRuleInput{
		Name:               aws.String(id),
		ScheduleExpression: aws.String(spec.Expression()),
		State:              types.RuleStateEnabled,
		Description:        aws.String(e.description(id, spec)),
	})
	if err != nil {
		return fmt.Errorf("%w: put rule %s: %w", ErrScheduleUpdate, id, err)
	}
	return nil
}

// Describe returns the trigger currently held by the rule.
func (e EventBridge) Describe(ctx context.Context, id string) (planner.TriggerSpec, error) {
	out, err := e.Client.DescribeRule(ctx, &eventbridge.DescribeRuleInput{Name: aws.String(id)})
	if err != nil {
		return planner.TriggerSpec{}, fmt.Errorf("%w: describe rule %s: %w", ErrScheduleUpdate, id, err)
	}
	spec, err := planner.ParseExpression(aws.ToString(out.ScheduleExpression))
	if err != nil {
		return planner.TriggerSpec{}, fmt.Errorf("%w: rule %s: %w", ErrScheduleUpdate, id, err)
	}
	return spec, nil
}

func (e EventBridge) description(id string, spec planner.TriggerSpec) string {
	description, ok := e.Descriptions[id]
	if !ok {
		description = "Scheduled trigger for " + id
	}
	return description + " (next: " + spec.Time().Format(time.RFC3339) + ")"
}
