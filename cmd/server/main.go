package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cbr-rate-service/internal/cbr"
	"cbr-rate-service/internal/config"
	"cbr-rate-service/internal/gateway"
	"cbr-rate-service/internal/logging"
	"cbr-rate-service/internal/metrics"
	"cbr-rate-service/internal/rates"
)

func main() {
	log := logging.DefaultLogger()
	log.Info("Starting CBR rate service")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log = logging.NewLogger(cfg.Log.Level)

	appMetrics := metrics.NewMetrics()

	client, err := cbr.NewClient(
		cfg.CBR.BaseURL,
		cfg.CBR.Timeout,
		cfg.CBR.RetryDelay,
		cfg.CBR.RetryAttempts,
		log,
	)
	if err != nil {
		log.Error("Failed to build feed client", "error", err)
		os.Exit(1)
	}

	rateService := rates.NewService(client, log)
	handler := gateway.NewHandler(rateService, log, appMetrics)

	router := gateway.NewRouter(handler, log, appMetrics)
	routes := router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      routes,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
