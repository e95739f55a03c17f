package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/kmicah/cardtable-go/internal/api"
	"github.com/kmicah/cardtable-go/internal/factory"
	"github.com/kmicah/cardtable-go/internal/server"
	redisstorage "github.com/kmicah/cardtable-go/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create the TCP table server
	tableCfg := server.DefaultConfig()
	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		tableCfg.Addr = addr
	}
	tableServer := server.New(tableCfg, app.Dispatcher, app.Broadcaster, app.Sessions, logger)

	// Create the operator API server
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Lobbies:  app.Lobbies,
		Sessions: app.Sessions,
		Chat:     app.Chat,
		Conns:    app.Broadcaster,
	})

	apiCfg := api.DefaultServerConfig()
	if port := os.Getenv("HTTP_PORT"); port != "" {
		parsed, err := strconv.Atoi(port)
		if err != nil {
			logger.Error("invalid HTTP_PORT", slog.String("value", port))
			os.Exit(1)
		}
		apiCfg.Port = parsed
	}
	apiServer := api.NewServer(apiRouter, apiCfg, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	if err := tableServer.Start(); err != nil {
		logger.Error("failed to start table server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start the HTTP server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.Start()
	}()

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := apiServer.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
		if err := tableServer.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
