package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/soocke/ctr-meter/app"
	"github.com/soocke/ctr-meter/assets"
	"github.com/soocke/ctr-meter/config"
	"github.com/soocke/ctr-meter/debug"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Fprint(os.Stdout, assets.Usage)
		fmt.Fprint(os.Stdout, config.NewFlagSet("ctr-meter").FlagUsages())
		return
	}

	level := slog.LevelInfo
	console := false
	if cfg != nil {
		console = cfg.ConsoleLog
		if cfg.Debug {
			level = slog.LevelDebug
		}
	}
	logger := NewLogger(level, console)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	if cfg.Debug {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		debug.StartRuntimeLogger(ctx, 5*time.Second, logger)
	}

	application := app.NewApp("CTR Meter", 980, 760, cfg, logger)
	application.Start()
}
