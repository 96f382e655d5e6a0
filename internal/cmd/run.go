package cmd

import (
	"encoding/json"
	"fmt"
	"github.com/clambin/aws4home/internal/configuration"
	"github.com/clambin/aws4home/internal/notifier"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"log/slog"
)

var runCmd = cobra.Command{
	Use:       "run NOTIFIER [PAYLOAD]",
	Short:     "Invoke a notifier once",
	Long:      "Invoke a notifier once. The payload is only used by the garagedoor notifier. Use - to read it from stdin.",
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: configuration.Notifiers.List(),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		payload, err := readPayload(cmd.InOrStdin(), args[1:])
		if err != nil {
			return err
		}
		logger := slog.Default().With("notifier", name)
		a, closer, err := newApp(cmd.Context(), viper.GetViper(), nil, logger, forNotifiers(name))
		if err != nil {
			return err
		}
		defer closer()

		ctx := notifier.WithInvocationID(cmd.Context(), uuid.NewString())
		return a.Invoke(ctx, name, payload)
	},
}

func readPayload(stdin io.Reader, args []string) (json.RawMessage, error) {
	if len(args) == 0 {
		return nil, nil
	}
	payload := []byte(args[0])
	if args[0] == "-" {
		var err error
		if payload, err = io.ReadAll(stdin); err != nil {
			return nil, fmt.Errorf("payload: %w", err)
		}
	}
	if !json.Valid(payload) {
		return nil, fmt.Errorf("payload: invalid json")
	}
	return payload, nil
}
