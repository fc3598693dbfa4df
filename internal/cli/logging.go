package cli

import (
	"io"
	"log/slog"

	corecfg "github.com/aevon-lab/siteflow/internal/core/config"
)

func setupLogger(cfg *corecfg.Config, out io.Writer) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	slog.SetDefault(slog.New(handler))
}
