package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"autocomplete/internal/logging"
	"autocomplete/internal/server"
)

func main() {
	var (
		addr     string
		fixtures string
		watch    bool
		debug    bool
		latency  time.Duration
	)
	flag.StringVar(&addr, "addr", "127.0.0.1:8080", "Address to listen on")
	flag.StringVar(&fixtures, "fixtures", "fixtures/autocomplete.yaml", "Fixtures file with the suggestion sources")
	flag.StringVar(&fixtures, "f", "fixtures/autocomplete.yaml", "Fixtures file (shorthand)")
	flag.BoolVar(&watch, "watch", false, "Reload the fixtures file when it changes")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.DurationVar(&latency, "latency", 0, "Artificial delay added to every suggestion response")
	flag.Parse()

	logger, err := logging.New(debug, "")
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	data, err := server.LoadFixtures(fixtures)
	if err != nil {
		logger.Fatal("Failed to load fixtures", zap.String("path", fixtures), zap.Error(err))
	}
	store := server.NewStore(data)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if watch {
		w := server.NewWatcher(fixtures, store, logger)
		if err := w.Start(ctx); err != nil {
			logger.Fatal("Failed to watch fixtures", zap.Error(err))
		}
	}

	srv := server.NewServer(store, addr, logger, server.WithLatency(latency))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
