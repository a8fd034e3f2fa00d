package main

import (
	"ClipSync/internal/config"
	"ClipSync/internal/handlers"
	"ClipSync/internal/middleware"
	"ClipSync/internal/repo"
	"ClipSync/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Debugw("Failed to sync logger", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	clipRepo := repo.NewClipRepository(gormDB)
	deviceRepo := repo.NewDeviceRepository(gormDB)

	clipService := service.NewClipService(clipRepo, cfg.CleanupDays, sugar)
	deviceService, err := service.NewDeviceService(deviceRepo, cfg.SyncSecret, sugar)
	if err != nil {
		sugar.Fatalw("failed to initialize device service", "error", err)
	}
	telemetry := service.NewTelemetryService(sugar)

	h := handlers.NewHandler(clipService, deviceService, telemetry, sugar, cfg)

	// фоновые задачи живут до сигнала остановки
	go clipService.RunCleanup(ctx, 24*time.Hour)
	go telemetry.Run(ctx, time.Duration(cfg.TelemetryResetMinutes)*time.Minute)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := h.Limiter.Prune(); n > 0 {
					sugar.Debugw("rate limiter pruned", "keys", n)
				}
			}
		}
	}()

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
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
		"CleanupDays", cfg.CleanupDays,
		"SyncSecretSet", cfg.SyncSecret != "",
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	case <-ctx.Done():
		sugar.Infow("Shutdown signal received, closing HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Graceful shutdown failed", "error", err)
		}
	}
	sugar.Infow("HTTP server closed")
}
