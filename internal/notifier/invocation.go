package notifier

import (
	"context"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

type invocationKey struct{}

// WithInvocationID returns a copy of ctx that carries the invocation ID.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationKey{}, id)
}

// InvocationID returns the ID of the current invocation: the ID set by WithInvocationID, the Lambda request ID,
// or a new random ID.
func InvocationID(ctx context.Context) string {
	if id, ok := ctx.Value(invocationKey{}).(string); ok && id != "" {
		return id
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}
