package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/user-directory/internal/domain"
	"github.com/msomdec/user-directory/internal/handler"
	"github.com/msomdec/user-directory/internal/service"
	"github.com/msomdec/user-directory/internal/store/postgres"
	"github.com/msomdec/user-directory/internal/store/sqlite"
)

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	slog.SetDefault(logger)

	port := envOrDefault("PORT", "8080")
	driver := envOrDefault("STORE_DRIVER", "sqlite")

	var db domain.Database
	var err error
	switch driver {
	case "sqlite":
		db, err = sqlite.New(envOrDefault("DATABASE_PATH", "user-directory.db"))
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			slog.Error("DATABASE_URL environment variable is required for the postgres driver")
			os.Exit(1)
		}
		db, err = postgres.New(dsn)
	default:
		slog.Error("unknown STORE_DRIVER", "value", driver)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("failed to open store", "driver", driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("store migrations applied", "driver", driver)

	userService := service.NewUserService(db.Entities())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, userService)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler.RequestLogger(handler.JSONContentType(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
