package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"optionsanalyzer/internal/config"
	"optionsanalyzer/internal/marketdata"
	"optionsanalyzer/internal/server"
	"optionsanalyzer/internal/storage"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Environment.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Infof("Starting options analyzer in %s mode", cfg.Environment.Mode)

	provider := buildProvider(cfg, logger)

	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		logger.Fatalf("Failed to open strategy storage: %v", err)
	}

	srv := server.NewServer(server.Config{
		Port:      cfg.Server.Port,
		AuthToken: cfg.Server.AuthToken,
		Analysis:  cfg.AnalysisConfig(),
	}, provider, store, logger)

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, stopping server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Server shutdown failed")
		}
		cancel()
	}()

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server error: %v", err)
	}

	<-ctx.Done()
	logger.Info("Analyzer stopped")
}

// buildProvider assembles the market data stack: in mock mode just the
// synthetic provider; in live mode the Alpha Vantage client behind a
// circuit breaker, with the mock as fallback when the upstream fails.
func buildProvider(cfg *config.Config, logger *logrus.Logger) marketdata.Provider {
	mock := marketdata.NewMockProvider()
	if cfg.IsMockMode() {
		return mock
	}

	live := marketdata.NewAlphaVantageClientWithBaseURL(cfg.MarketData.APIKey, cfg.MarketData.BaseURL, logger)
	guarded := marketdata.NewCircuitBreakerProvider(live)
	return marketdata.NewFallbackProvider(guarded, mock, logger)
}
