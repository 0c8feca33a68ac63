package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"noirstore/internal/config"
	"noirstore/internal/database"
	"noirstore/internal/handlers"
	"noirstore/internal/logger"
	"noirstore/internal/realtime"
	"noirstore/internal/repository"
	"noirstore/internal/seed"
	"noirstore/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	defer logger.Close()
	appLog := logger.Get("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	backend, err := database.OpenBackend(connectCtx, cfg, logger.Get("database"))
	cancel()
	if err != nil {
		appLog.WithError(err).Fatal("storage backend unavailable")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := backend.Close(closeCtx); err != nil {
			appLog.WithError(err).Warn("storage backend close failed")
		}
	}()

	store := storage.New(backend, cfg.KeyPrefix, logger.Get("storage"))

	hub := realtime.NewHub(logger.Get("realtime"))
	go hub.Run(ctx)

	repos, err := repository.NewSet(store, repository.Options{
		Latency:           cfg.SimulatedLatency,
		LowStockThreshold: cfg.LowStockThreshold,
		ActivityLimit:     cfg.ActivityLimit,
		TaxRate:           cfg.TaxRate,
		AdminEmail:        cfg.AdminEmail,
		AdminPassword:     cfg.AdminPassword,
		JWTSecret:         cfg.JWTSecret,
		SessionTTL:        cfg.SessionTTL,
	}, hub, logger.Get("repository"))
	if err != nil {
		appLog.WithError(err).Fatal("repository setup failed")
	}

	if cfg.SeedOnStart {
		seeded, err := seed.Apply(ctx, store, time.Now(), logger.Get("seed"))
		if err != nil {
			appLog.WithError(err).Fatal("seeding failed")
		}
		if seeded {
			appLog.Info("demo catalogue seeded")
		}
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.LoggerWithWriter(logger.Root().Writer()), gin.Recovery())
	handlers.Register(r, handlers.Deps{
		Repos:     repos,
		Hub:       hub,
		Store:     store,
		UploadDir: cfg.UploadDir,
		Log:       logger.Get("auth"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.WithField("port", cfg.Port).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Warn("graceful shutdown failed")
	}
}
