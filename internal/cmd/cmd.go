package cmd

import (
	"context"
	"errors"
	"github.com/clambin/aws4home/internal/app"
	"github.com/clambin/aws4home/internal/configuration"
	"github.com/clambin/go-common/charmer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log/slog"
	"os"
	"strings"
)

var (
	configFilename string
	RootCmd        = cobra.Command{
		Use:   "aws4home",
		Short: "Home automation notifiers",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			charmer.SetJSONLogger(cmd, viper.GetBool("debug"))
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&configFilename, "config", "", "Configuration file")
	RootCmd.PersistentFlags().Bool("debug", false, "Log debug messages")
	_ = viper.BindPFlag("debug", RootCmd.PersistentFlags().Lookup("debug"))

	RootCmd.AddCommand(&lambdaCmd, &runCmd, &serveCmd, &triggerCmd, &configCmd)
}

func initConfig() {
	if configFilename != "" {
		viper.SetConfigFile(configFilename)
	} else {
		viper.AddConfigPath("/etc/aws4home/")
		viper.AddConfigPath("$HOME/.aws4home")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}

	if err := charmer.SetDefaults(viper.GetViper(), configuration.Arguments); err != nil {
		panic("failed to set viper defaults: " + err.Error())
	}

	viper.SetEnvPrefix("AWS4HOME")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// lambda functions are configured through their environment only
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return
		}
		slog.Error("failed to read config file", "err", err)
		os.Exit(1)
	}
}

// newApp loads and validates the configuration and creates the App. The returned function releases the App's
// connections.
func newApp(ctx context.Context, v *viper.Viper, registry prometheus.Registerer, logger *slog.Logger, validate func(configuration.Configuration) error) (*app.App, func(), error) {
	cfg, err := configuration.Load(v)
	if err != nil {
		return nil, func() {}, err
	}
	if err = validate(cfg); err != nil {
		return nil, func() {}, err
	}
	clients, closer, err := app.NewClients(ctx, cfg, logger)
	if err != nil {
		closer()
		return nil, func() {}, err
	}
	a, err := app.New(cfg, clients, registry, logger)
	if err != nil {
		closer()
		return nil, func() {}, err
	}
	return a, closer, nil
}

// forNotifiers validates the configuration needed to invoke the provided notifiers.
func forNotifiers(notifiers ...string) func(configuration.Configuration) error {
	return func(cfg configuration.Configuration) error {
		return cfg.Validate(notifiers...)
	}
}
