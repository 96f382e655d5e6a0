package cmd

import (
	"context"
	"encoding/json"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log/slog"
)

var lambdaCmd = cobra.Command{
	Use:   "lambda",
	Short: "Run a notifier as an AWS Lambda function",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		name := viper.GetString("lambda.notifier")
		logger := slog.Default().With("notifier", name)
		a, closer, err := newApp(cmd.Context(), viper.GetViper(), nil, logger, forNotifiers(name))
		if err != nil {
			return err
		}
		defer closer()

		logger.Info("starting lambda handler", "version", cmd.Root().Version)
		lambda.StartWithOptions(lambdaHandler(a, name), lambda.WithContext(cmd.Context()))
		return nil
	},
}

func init() {
	lambdaCmd.Flags().String("notifier", "", "Notifier to run (iss, bond, lunarlander, garagedoor)")
	_ = viper.BindPFlag("lambda.notifier", lambdaCmd.Flags().Lookup("notifier"))
}

// invoker runs a notifier once.
type invoker interface {
	Invoke(ctx context.Context, name string, payload json.RawMessage) error
}

// lambdaHandler invokes the notifier for every event. Scheduled events carry no information the notifiers
// need. The garage door mirror receives the event as its payload.
func lambdaHandler(i invoker, name string) func(context.Context, json.RawMessage) error {
	return func(ctx context.Context, payload json.RawMessage) error {
		return i.Invoke(ctx, name, payload)
	}
}
