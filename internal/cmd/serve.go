package cmd

import (
	"github.com/clambin/aws4home/internal/configuration"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

var serveCmd = cobra.Command{
	Use:   "serve",
	Short: "Run the notifiers locally",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		logger := slog.Default()
		a, closer, err := newApp(ctx, viper.GetViper(), prometheus.DefaultRegisterer, logger, configuration.Configuration.ValidateServe)
		if err != nil {
			return err
		}
		defer closer()

		logger.Info("aws4home starting", "version", cmd.Root().Version, "notifiers", viper.GetStringSlice("serve.notifiers"))
		defer logger.Info("aws4home stopped")
		return a.Serve(ctx)
	},
}
