package main

import (
	"campusfood/api"
	"campusfood/contract"
	"campusfood/internal"
	"campusfood/observability"
	"campusfood/repositories"
	"campusfood/runtime"
	"campusfood/runtime/workers"
	"campusfood/services"
	"campusfood/transport"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or
// service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting. This keeps defers (database cleanup) running
// before the process exits and decouples initialization from the entry
// point for testability.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Document store (BadgerDB)
	options := buildBadgerOpts(config, logger, ctx)
	db, err := badger.Open(options)
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Relational store (orders). Optional: without it the service still
	// relays chat and announcements, and the orders API answers 503.
	var orders contract.IOrderRepository
	if config.PostgresDSN != "" {
		orderDB, err := repositories.OpenOrderDB(ctx, config.PostgresDSN)
		if err != nil {
			logger.Warn("order store unavailable, orders API degraded", "error", err)
		} else {
			defer func() {
				logger.Info("Closing order pool...")
				_ = orderDB.Close()
			}()
			orders = repositories.NewOrderRepository(orderDB)
		}
	} else {
		logger.Warn("POSTGRES_DSN not set, orders API degraded")
	}

	// 4. Delivery core
	metrics := observability.NewMetrics()
	registry := runtime.NewRegistry(logger)
	router := runtime.NewRouter(logger, registry, metrics)
	recorder := workers.NewHistoryRecorder(logger, metrics, config.HistoryBufferSize)
	messageRepository := repositories.NewMessageRepository(db, logger)
	announcementRepository := repositories.NewAnnouncementRepository(db, logger)
	engine := runtime.NewEngine(logger, registry, router, recorder, orders, metrics)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. History worker under supervision
	sup := workers.NewSupervisor(logger, config.WorkerRestartDelay)
	historyWorker := workers.NewHistoryWorker(logger, recorder, messageRepository, announcementRepository, metrics)
	go sup.Add(historyWorker).Run(ctx)

	// 7. Transport & HTTP API
	wsServer := transport.NewServer(ctx, logger,
		transport.ConnectionConfig{
			ReadTimeout: config.ReadTimeout,
			SendBuffer:  config.ConnectionBufferSize,
		},
		func(ctx context.Context, conn *transport.Connection, raw []byte) {
			engine.HandleMessage(ctx, conn, raw)
		},
		func(connID uuid.UUID, err error) {
			engine.HandleDisconnect(connID)
		},
	)

	service := services.NewRealtimeService(engine, messageRepository, announcementRepository)
	handlers := api.NewHandlers(logger, service)
	muxRouter := api.NewRouter(handlers, wsServer, metrics.Handler())

	httpServer := &http.Server{Addr: config.ListenAddr, Handler: muxRouter}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", config.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 9. Final Cleanup (Graceful Shutdown)
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	wsServer.Wait()
	sup.Stop()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
