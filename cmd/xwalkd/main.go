package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Harry110/crosswalk/internal/infrastructure/config"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
	"github.com/Harry110/crosswalk/internal/infrastructure/monitoring"
	"github.com/Harry110/crosswalk/internal/runtime/runner"
	"github.com/Harry110/crosswalk/internal/server"
)

func main() {
	platform := flag.String("platform", "", "Platform capability set (overrides XWALK_PLATFORM)")
	dataDir := flag.String("data-dir", "", "User data directory (overrides XWALK_DATA_DIR)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *platform != "" {
		cfg.Runtime.Platform = *platform
	}
	if *dataDir != "" {
		cfg.Runtime.UserDataDir = *dataDir
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Development = cfg.Logging.Development
	log, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	metrics := monitoring.NewMetrics()

	rt, err := runner.New(cfg, log, metrics)
	if err != nil {
		log.Fatal("runtime construction failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rt.Start(ctx); err != nil {
		log.Fatal("runtime start failed", zap.Error(err))
	}

	errCh := make(chan error, 1)
	var srv *server.Server
	if cfg.Admin.Enabled {
		srv = server.New(cfg, rt, metrics, log)
		go func() { errCh <- srv.Run() }()
	}

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error("inspection server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("inspection server shutdown failed", zap.Error(err))
		}
	}
	if err := rt.Shutdown(shutdownCtx); err != nil {
		log.Warn("runtime shutdown failed", zap.Error(err))
	}
}
