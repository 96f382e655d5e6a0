package cmd

import (
	"encoding/json"
	"fmt"
	"github.com/clambin/aws4home/internal/configuration"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"io"
)

var configCmd = cobra.Command{
	Use:   "config",
	Short: "Show the configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		return showConfig(cmd.OutOrStdout(), viper.GetViper(), format)
	},
}

func init() {
	configCmd.Flags().String("format", "yaml", "Output format (yaml, json)")
}

type encoder interface {
	Encode(any) error
}

func showConfig(w io.Writer, v *viper.Viper, format string) error {
	cfg, err := configuration.Load(v)
	if err != nil {
		return err
	}
	var e encoder
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		e = enc
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		e = enc
	default:
		return fmt.Errorf("invalid format %q", format)
	}
	return e.Encode(cfg.Redacted())
}
