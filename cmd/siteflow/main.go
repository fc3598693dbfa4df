package main

import (
	"log/slog"
	"os"

	"github.com/aevon-lab/siteflow/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Replaced by the configured logger once a command loads its config.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if err := cli.Run(version); err != nil {
		slog.Error("siteflow exited with error", "error", err)
		os.Exit(1)
	}
}
