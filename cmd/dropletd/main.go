package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dropletvault/config"
	"dropletvault/native/bucket"
	"dropletvault/native/farm"
	"dropletvault/observability/logging"
	"dropletvault/rpc"
	"dropletvault/state"
	"dropletvault/state/bank"
	"dropletvault/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	env := strings.TrimSpace(os.Getenv("DROPLET_ENV"))
	logger := logging.Setup("dropletd", env, logging.ParseLevel(cfg.LogLevel))

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		logger.Error("Invalid engine configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	engine, err := bucket.NewEngine(engineCfg)
	if err != nil {
		logger.Error("Failed to construct engine", slog.Any("error", err))
		os.Exit(1)
	}
	registry := state.NewMetadataRegistry(db)
	engine.SetState(state.NewStore(db))
	engine.SetLedger(bank.NewLedger(db))
	engine.SetMetadataSource(registry)
	engine.SetFarm(farm.NewPassthrough())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddress,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics listening", slog.String("address", cfg.MetricsAddress))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	server := rpc.NewServer(engine, registry, logger)
	logger.Info("rpc listening", slog.String("address", cfg.RPCAddress))
	if err := server.Listen(ctx, cfg.RPCAddress); err != nil {
		logger.Error("rpc server failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
