package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"github.com/Harshmalhotra78898/LiveInteract/domain"
	"github.com/Harshmalhotra78898/LiveInteract/httpapi"
	"github.com/Harshmalhotra78898/LiveInteract/observability"
	"github.com/Harshmalhotra78898/LiveInteract/repositories"
	"github.com/Harshmalhotra78898/LiveInteract/runtime"
	"github.com/Harshmalhotra78898/LiveInteract/runtime/workers"
	"github.com/Harshmalhotra78898/LiveInteract/services"
	"github.com/Harshmalhotra78898/LiveInteract/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so every defer (like the database close)
// executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Message store (BadgerDB, in-memory: sessions never outlive the process)
	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("message store opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing message store...")
		_ = db.Close()
	}()

	// 3. Core components
	registry := runtime.NewSessionRegistry()
	conns := runtime.NewConnRegistry()
	scheduler := runtime.NewExpirationScheduler(log)
	store := repositories.NewMessageStore(db, log)
	monitor := observability.NewMonitor()
	service := services.NewSessionService(log, registry, conns, store, scheduler, monitor, domain.SessionDuration)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Supervision
	sup := workers.NewSupervisor(log)
	sup.Add(workers.NewTelemetryWorker(log, config.MetricInterval, service.Stats))
	go sup.Run(ctx)

	// 6. HTTP surface: websocket endpoint plus the REST side channel
	router := mux.NewRouter()
	router.Handle("/ws", ws.NewServer(log, service, config.ConnectionBufferSize, config.MaxFrameBytes))
	httpapi.NewHandler(log, service).Register(router)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{
		Addr:    address,
		Handler: httpapi.WithCORS(router),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting relay server", "address", address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
