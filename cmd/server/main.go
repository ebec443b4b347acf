package main

import (
	"alcyxob/fitplan/internal/api"
	"alcyxob/fitplan/internal/app"
	"alcyxob/fitplan/internal/config"
	"alcyxob/fitplan/internal/logging"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// @title FitPlan API
// @version 1.0
// @description API for building multi-week workout plans, managing clients and exporting printable PDFs.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Infof("Starting FitPlan server (store driver: %s)...", cfg.Store.Driver)

	// --- Store and services ---
	startCtx, cancelStart := context.WithTimeout(context.Background(), time.Minute)
	application, err := app.New(startCtx, cfg)
	cancelStart()
	if err != nil {
		log.Fatalf("FATAL: Could not initialize application: %v", err)
	}
	defer func() {
		log.Info("Closing store...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := application.Close(ctx); err != nil {
			log.Errorf("Failed to close store: %v", err)
		}
	}()

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.GinMode)
	router := api.NewRouter(application.Services, api.RouterOptions{
		Metrics:        application.Metrics,
		Gatherer:       application.Registry,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	log.Infof("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
		return
	}

	log.Info("Server exiting.")
}
