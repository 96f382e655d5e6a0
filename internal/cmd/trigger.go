package cmd

import (
	"fmt"
	"github.com/clambin/aws4home/internal/configuration"
	"github.com/clambin/aws4home/internal/planner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"log/slog"
	"time"
)

var triggerCmd = cobra.Command{
	Use:       "trigger NOTIFIER",
	Short:     "Show the trigger a notifier scheduled for its next event",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{configuration.ISS, configuration.Bond},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closer, err := newApp(cmd.Context(), viper.GetViper(), nil, slog.Default(), forNotifiers(args[0]))
		if err != nil {
			return err
		}
		defer closer()

		spec, err := a.Trigger(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return showTrigger(cmd.OutOrStdout(), args[0], spec, a.Location())
	},
}

func showTrigger(w io.Writer, name string, spec planner.TriggerSpec, loc *time.Location) error {
	_, err := fmt.Fprintf(w, "%s: %s (%s)\n", name, spec.Expression(), spec.Time().In(loc).Format(time.RFC1123))
	return err
}
