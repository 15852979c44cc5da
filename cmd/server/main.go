package main

import (
	"PassVault/internal/cli/bootstrap"
	"PassVault/internal/config"
	"PassVault/internal/handlers"
	"PassVault/internal/logger"
	"PassVault/internal/middleware"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.NewConfig()

	// создаём регистратор zap
	zl, err := logger.New(cfg.Debug)
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := zl.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := zl.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// без хранилища работать нечем: ошибка открытия фатальна
	vault, closeVault, err := bootstrap.OpenVault(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalw("Failed to open vault", "error", err)
	}
	defer func() {
		if err := closeVault(); err != nil {
			sugar.Errorw("Failed to close vault", "error", err)
		}
	}()

	h := handlers.NewHandler(vault.Store, vault.Engine, sugar, cfg)

	addr := cfg.BaseURL
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)
	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"VaultDBPath", cfg.VaultDBPath,
		"Postgres", cfg.DatabaseDSN != "",
		"BackupDir", cfg.BackupDir,
		"BackupEnabled", cfg.BackupKey != "",
		"DuplicatePolicy", cfg.DuplicatePolicy,
		"APIPasswordSet", cfg.APIPasswordHash != "",
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Errorw("Server failed", "error", err)
		}
	case <-ctx.Done():
		sugar.Infow("Shutting down")
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Shutdown failed", "error", err)
		}
	}
}
