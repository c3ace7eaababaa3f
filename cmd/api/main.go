package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shipment-tracker/internal/app"
	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/core/server"
	shipmenthandler "shipment-tracker/internal/features/shipments/handler"

	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// @title Shipment Tracker API
// @version 1.0
// @description This API lists a forwarding account's shipments and resolves their customs status.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	a, err := app.Build(cfg)
	if err != nil {
		l.Fatal("Failed to build services", zap.Error(err))
	}

	shipmentHdl := shipmenthandler.NewShipmentHandler(a.Shipments)
	lookupHdl := shipmenthandler.NewLookupHandler(a.Lookups)
	healthHdl := shipmenthandler.NewHealthHandler(a.Pool.Stats)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Post("/shipments", shipmentHdl.GetShipments)
	srv.App.Get("/customs/:code", lookupHdl.GetCustomsStatus)
	srv.App.Get("/health", healthHdl.GetHealth)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			l.Error("Server failed", zap.Error(err))
		}
	case sig := <-quit:
		l.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		l.Error("Server shutdown failed", zap.Error(err))
	}
	if err := a.Close(ctx); err != nil {
		l.Error("Service shutdown failed", zap.Error(err))
	}
	l.Info("Application stopped")
}
