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
	"go.uber.org/zap/zapcore"

	"github.com/gosettlers/server/internal/config"
	"github.com/gosettlers/server/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file (TOML)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	srv, err := server.StartServer(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("boot failed", zap.Error(err))
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	got := <-sig
	log.Info("shutting down", zap.String("signal", got.String()))
	srv.Shutdown(5 * time.Second)
}

// loadConfig resolves the config path: flag, then GOSETTLERS_CONFIG, then
// built-in defaults when neither is set.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("GOSETTLERS_CONFIG")
	}
	if path == "" {
		cfg := config.Defaults()
		cfg.Server.StartTime = time.Now().Unix()
		return cfg, nil
	}
	return config.Load(path)
}

func newLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("bad log level %q: %w", lc.Level, err)
	}
	zc := zap.NewProductionConfig()
	if lc.Format != "json" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
