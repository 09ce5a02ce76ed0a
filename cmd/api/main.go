package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/habinote/habinote-go/internal/config"
	"github.com/habinote/habinote-go/internal/crypto"
	"github.com/habinote/habinote-go/internal/handler"
	"github.com/habinote/habinote-go/internal/repository"
	"github.com/habinote/habinote-go/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg)

	ctx := context.Background()

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DBMigrate {
		if err := repository.Migrate(ctx, db); err != nil {
			slog.Error("database migration failed", "error", err)
			db.Close()
			os.Exit(1)
		}
	}

	hasher, err := crypto.NewHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		slog.Error("password hasher setup failed", "error", err)
		db.Close()
		os.Exit(1)
	}
	tokens := crypto.NewTokenIssuer([]byte(cfg.JWTSecret), crypto.TokenLifetime)

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, hasher, tokens)
	authHandler := handler.NewAuthHandler(authService)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.NewRouter(authHandler, tokens, cfg.CORSOrigin),
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "hasher", cfg.PasswordHasher)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var h slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.LogFormat == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
