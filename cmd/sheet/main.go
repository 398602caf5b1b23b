// Package main runs the interactive character sheet editor.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/config"
	"github.com/cory-johannsen/charsheet/internal/console"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
	"github.com/cory-johannsen/charsheet/internal/game/session"
	"github.com/cory-johannsen/charsheet/internal/gateway"
	"github.com/cory-johannsen/charsheet/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (defaults and CHARSHEET_ env vars when empty)")
	noColor := flag.Bool("no-color", false, "disable ANSI colors")
	flag.Parse()

	// Load configuration
	var (
		cfg config.Config
		err error
	)
	if *configPath == "" {
		cfg, err = config.LoadDefaults()
	} else {
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// Initialize logger
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// Load ruleset data
	cat := ruleset.DefaultCatalog()
	if cfg.Ruleset.Dir != "" {
		cat, err = ruleset.LoadCatalog(cfg.Ruleset.Dir)
		if err != nil {
			logger.Fatal("loading ruleset", zap.String("dir", cfg.Ruleset.Dir), zap.Error(err))
		}
	}
	logger.Info("ruleset loaded",
		zap.Int("classes", len(cat.ClassDefinitions())),
		zap.Int("skills", len(cat.SkillDefinitions())),
	)

	shutdownTracing, err := observability.SetupTracing(context.Background(), cfg.Tracing, "sheet", logger)
	if err != nil {
		logger.Fatal("initializing tracing", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	gw := gateway.New(cfg.Gateway, logger)
	editor := session.NewEditor(cat, gw, logger)
	con := console.New(editor, os.Stdout, logger, console.WithColor(!*noColor))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Debug("editor ready", zap.String("endpoint", gw.Endpoint()))
	if err := con.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		logger.Error("console stopped", zap.Error(err))
	}
}
