package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/backend"
	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/config"
	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/handlers"
	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/logging"
	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/metrics"
	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/models"
	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/monitor"
	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/router"
	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/simulator"
)

const feedbackCatalogPath = "config/feedback.yaml"

func main() {
	// Config loads before the real logger exists; use a plain console
	// logger for that window.
	bootstrap, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize bootstrap logger: " + err.Error())
	}
	if err := config.Init(".", bootstrap); err != nil {
		bootstrap.Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logging.Init(config.Conf.Logging)
	if err != nil {
		bootstrap.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	// Load the feedback label set at startup
	catalog := models.DefaultFeedbackCatalog()
	if _, err := os.Stat(feedbackCatalogPath); err == nil {
		catalog, err = models.LoadFeedbackCatalog(feedbackCatalogPath)
		if err != nil {
			log.Fatal("Failed to load feedback catalog", zap.Error(err))
		}
	}

	m := metrics.New(nil)
	client := backend.New(config.Conf.Backend.BaseURL, config.Conf.Backend.Timeout, log, m)
	mon := monitor.New(client, simulator.New(), catalog, log, m)

	// Warm the display series. Failure only logs; the dashboard simply
	// starts empty.
	ctx, cancel := context.WithTimeout(context.Background(), config.Conf.Backend.Timeout)
	if err := mon.LoadHistory(ctx); err != nil {
		log.Warn("Initial history load failed", zap.Error(err))
	}
	cancel()

	dashboard := handlers.NewDashboardHandler(log, mon, catalog)
	api := handlers.NewAPIHandler(log, mon)
	r := router.Setup(log, dashboard, api)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
