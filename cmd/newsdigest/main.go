package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"newsdigest/internal/app"
	"newsdigest/internal/config"
	"newsdigest/internal/logger"
	"newsdigest/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet; this is a fatal configuration error.
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogDir)

	// Check if we should start HTTP server for monitoring
	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer()
	}

	pipeline, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to assemble pipeline", "error", err)
		os.Exit(1)
	}

	status, err := pipeline.Run(context.Background())
	if err != nil {
		metrics.Global.SetError(err.Error())
		slog.Error("digest run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("digest run completed",
		"delivered", status.Delivered,
		"items_collected", status.ItemsCollected,
		"corporate_items", status.CorporateItems)
}

func startMonitoringServer() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	slog.Info("starting monitoring server", "port", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		slog.Error("monitoring server error", "error", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
