package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"github.com/dukerupert/hamfast/internal/database"
	"github.com/dukerupert/hamfast/internal/server"
)

func main() {
	port := os.Getenv("HAMFAST_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("HAMFAST_DB_PATH")
	if dbPath == "" {
		dbPath = "hamfast.db"
	}

	logger := newLogger(os.Getenv("HAMFAST_LOG_LEVEL"))

	jwtSecret := os.Getenv("HAMFAST_JWT_SECRET")
	if jwtSecret == "" {
		// Ephemeral secret: tokens stop working across restarts.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			log.Fatalf("generate jwt secret: %v", err)
		}
		jwtSecret = hex.EncodeToString(buf)
		logger.Warn("HAMFAST_JWT_SECRET not set, using an ephemeral secret")
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	srv := server.New(db, jwtSecret, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Background cleanup goroutine
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("hamfast listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cleanupCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	shutdownErr := httpServer.Shutdown(ctx)
	if err := multierr.Append(shutdownErr, db.Close()); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

// newLogger builds the process logger at the given level ("debug", "info",
// "warn", "error"; anything else means info) and installs it as the default.
func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}
