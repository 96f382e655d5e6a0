package main

import (
	"github.com/clambin/aws4home/internal/cmd"
	"log/slog"
	"os"
	_ "time/tzdata"
)

var (
	// overridden during build
	version = "change-me"
)

func main() {
	cmd.RootCmd.Version = version
	if err := cmd.RootCmd.Execute(); err != nil {
		slog.Error("failed to start", "err", err)
		os.Exit(1)
	}
}
