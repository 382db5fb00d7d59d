package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/devsilvver/corrida-das-gemas/internal/app"
	"github.com/devsilvver/corrida-das-gemas/internal/config"
	"github.com/devsilvver/corrida-das-gemas/internal/telemetry"
)

func main() {
	var configPath, mode string
	var render bool
	flag.StringVar(&configPath, "config", "", "path to a YAML config file")
	flag.StringVar(&mode, "mode", "", "pve, training, host or guest (overrides the config file)")
	flag.BoolVar(&render, "render", true, "print a board summary every second")
	flag.Parse()

	logger := telemetry.WrapLogger(log.Default())
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	cfg.ApplyEnv(os.Getenv, logger)
	if mode != "" {
		cfg.Mode = mode
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := app.Options{Logger: logger}
	if render {
		opts.Render = app.TextRenderer(os.Stdout)
	}
	if err := app.Run(ctx, cfg, opts); err != nil {
		log.Fatalf("%v", err)
	}
}
