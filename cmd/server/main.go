package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hivetool/internal/app"
	"github.com/mamadbah2/hivetool/internal/config"
	"github.com/mamadbah2/hivetool/internal/scheduler"
	"github.com/mamadbah2/hivetool/internal/server/handlers"
	"github.com/mamadbah2/hivetool/internal/server/router"
	"github.com/mamadbah2/hivetool/internal/server/web"
	"github.com/mamadbah2/hivetool/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to initialize application", zap.Error(err))
	}
	defer application.Close(context.Background())

	provider := application.IdentityProvider()
	if provider == nil {
		baseLogger.Warn("google client not configured, federated sign-in disabled")
	}

	gate := web.NewGate(application.SessionManager(), application.Auth, baseLogger.Named("web.gate"))
	engine, err := router.New(router.Deps{
		Gate:      gate,
		Routes:    application.Routes(provider),
		Health:    handlers.Health(application.Pinger(), baseLogger.Named("handlers.health")),
		Metrics:   application.Metrics,
		PublicDir: cfg.Server.PublicDir,
	}, baseLogger.Named("router"))
	if err != nil {
		baseLogger.Fatal("failed to build router", zap.Error(err))
	}

	sched, err := scheduler.NewScheduler(cfg.Reporting, application.Reporting, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.WithMethodOverride(engine),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
