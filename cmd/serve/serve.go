// Package serve implements the serve command, the long-running dashboard
// server: datastore, forecast polling and the HTTP API.
package serve

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	api "github.com/now-man/a4s-dshbrd-250831/internal/api/v2"
	"github.com/now-man/a4s-dshbrd-250831/internal/conf"
	"github.com/now-man/a4s-dshbrd-250831/internal/dashboard"
	"github.com/now-man/a4s-dshbrd-250831/internal/datastore"
	"github.com/now-man/a4s-dshbrd-250831/internal/forecast"
	"github.com/now-man/a4s-dshbrd-250831/internal/logging"
	"github.com/now-man/a4s-dshbrd-250831/internal/observability"
	"github.com/now-man/a4s-dshbrd-250831/internal/weather"
)

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}
}

func runServer(settings *conf.Settings) error {
	logger := logging.ForService("serve")

	store := datastore.New(settings)
	if store == nil {
		return fmt.Errorf("no database backend enabled in configuration")
	}
	if err := store.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer closeStore(store, logger)

	profile, err := datastore.EnsureUnitProfile(store, &settings.Unit)
	if err != nil {
		return fmt.Errorf("failed to prepare unit profile: %w", err)
	}
	logger.Info("Unit profile ready", "unit", profile.UnitName, "equipment", len(profile.Equipment))

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	forecastService, err := forecast.NewService(settings, metrics.Forecast)
	if err != nil {
		return fmt.Errorf("failed to initialize forecast service: %w", err)
	}

	weatherProvider, err := weather.NewProvider(settings)
	if err != nil {
		return fmt.Errorf("failed to initialize weather provider: %w", err)
	}

	dash := dashboard.NewService(settings, store, forecastService, weatherProvider, metrics.Datastore)

	e := newEcho(settings)
	controller := api.New(e, store, settings, dash, forecastService,
		log.New(os.Stderr, "api: ", log.LstdFlags), metrics)
	defer controller.Shutdown()

	stopPolling := make(chan struct{})
	go forecastService.StartPolling(stopPolling)

	go func() {
		addr := ":" + settings.WebServer.Port
		logger.Info("HTTP server starting", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Shutdown signal received", "signal", sig.String())

	close(stopPolling)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	return nil
}

func newEcho(settings *conf.Settings) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORS())
	if settings.WebServer.Debug {
		e.Use(middleware.Logger())
	}
	return e
}

func closeStore(store datastore.Interface, logger *slog.Logger) {
	if err := store.Close(); err != nil {
		logger.Error("Failed to close datastore", "error", err)
	}
}
