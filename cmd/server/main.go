package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatline/api"
	"chatline/auth"
	"chatline/domain/event"
	"chatline/internal"
	"chatline/moderation"
	"chatline/observability"
	"chatline/repositories"
	"chatline/runtime"
	"chatline/runtime/workers"
	"chatline/search"
	"chatline/services"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and manages the server lifecycle, so every
// defer executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}

	// 2. Storage & Search
	store, err := repositories.Open(config.SQLiteFilepath, log)
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing SQLite store...")
		_ = store.Close()
	}()

	index, err := search.Open(config.BlugeFilepath, log)
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() { _ = index.Close() }()

	// 3. Observability
	promRegistry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promRegistry)
	monitor, err := observability.NewMonitor(log)
	if err != nil {
		return fmt.Errorf("monitor setup failed: %w", err)
	}

	// 4. Core wiring
	moderator, err := moderation.NewModerator(moderation.EmbeddedWords(), charReplacement)
	if err != nil {
		return fmt.Errorf("moderator setup failed: %w", err)
	}
	registry := runtime.NewRegistry(config.ConnectionBufferSize)
	events := make(chan event.DomainEvent, config.BufferSize)
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)

	chatService := services.NewChatService(log, store, events, moderator,
		metrics, config.MaxContentLength)
	authService := services.NewAuthService(log, store, index, tokens)
	directoryService := services.NewDirectoryService(log, store, index)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Background workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewFanout(log, events, registry, config.DeliveryTimeout, metrics),
		workers.NewTelemetry(log, monitor, metrics, registry, config.MetricInterval),
	)
	supDone := make(chan struct{})
	go func() {
		defer close(supDone)
		sup.Run(ctx)
	}()

	// 7. HTTP Server
	router := api.NewRouter(api.Deps{
		Log:        log,
		Auth:       authService,
		Chat:       chatService,
		Directory:  directoryService,
		Tokens:     tokens,
		Registry:   registry,
		Monitor:    monitor,
		Metrics:    metrics,
		PromGather: promRegistry,
	})

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 9. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown was not clean", "error", err)
	}
	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")

	return nil
}
