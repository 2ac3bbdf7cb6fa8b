// Package forecast supplies the predicted GNSS error horizon consumed by the
// risk classifier. Real space-weather feeds are out of scope; the mock
// provider stands in for the external forecast collaborator.
package forecast

import (
	"io"
	"log/slog"
	"time"

	"github.com/now-man/a4s-dshbrd-250831/internal/conf"
	"github.com/now-man/a4s-dshbrd-250831/internal/errors"
	"github.com/now-man/a4s-dshbrd-250831/internal/logging"
	"github.com/now-man/a4s-dshbrd-250831/internal/observability/metrics"
	"github.com/patrickmn/go-cache"
)

const cacheKey = "horizon"

// ForecastPoint is one hourly prediction of GNSS error and geomagnetic
// activity. Only PredictedErrorMeters feeds the risk classifier; KpIndex is
// presentational.
type ForecastPoint struct {
	HourLabel            string  `json:"time"` // "HH:00"
	PredictedErrorMeters float64 `json:"predicted_error"`
	KpIndex              float64 `json:"kp_index"`
}

// MaxPredictedError returns the maximum predicted error across the horizon.
// An empty horizon yields 0, which classifies as NORMAL against any positive
// threshold.
func MaxPredictedError(points []ForecastPoint) float64 {
	maxErr := 0.0
	for i := range points {
		if points[i].PredictedErrorMeters > maxErr {
			maxErr = points[i].PredictedErrorMeters
		}
	}
	return maxErr
}

// MaxKpIndex returns the maximum Kp index across the horizon, 0 when empty.
func MaxKpIndex(points []ForecastPoint) float64 {
	maxKp := 0.0
	for i := range points {
		if points[i].KpIndex > maxKp {
			maxKp = points[i].KpIndex
		}
	}
	return maxKp
}

// Provider represents a forecast data provider
type Provider interface {
	FetchForecast(settings *conf.Settings) ([]ForecastPoint, error)
}

// Service handles forecast retrieval with a cached horizon snapshot.
type Service struct {
	provider Provider
	settings *conf.Settings
	cache    *cache.Cache
	metrics  *metrics.ForecastMetrics
	logger   *slog.Logger
}

// NewService creates a new forecast service with the configured provider.
func NewService(settings *conf.Settings, forecastMetrics *metrics.ForecastMetrics) (*Service, error) {
	var provider Provider

	switch settings.Forecast.Provider {
	case "mock":
		provider = NewMockProvider(settings.Forecast.Seed)
	default:
		return nil, errors.Newf("invalid forecast provider: %s", settings.Forecast.Provider).
			Component("forecast").
			Category(errors.CategoryConfiguration).
			Context("provider", settings.Forecast.Provider).
			Build()
	}

	ttl := time.Duration(settings.Forecast.PollInterval) * time.Minute

	logger, _, err := logging.NewFileLogger("logs/forecast.log", "forecast", slog.LevelInfo)
	if err != nil {
		logging.Error("Failed to initialize forecast file logger", "error", err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{})
		logger = slog.New(fbHandler).With("service", "forecast")
	}

	return &Service{
		provider: provider,
		settings: settings,
		cache:    cache.New(ttl, 2*ttl),
		metrics:  forecastMetrics,
		logger:   logger,
	}, nil
}

// Get returns the current forecast horizon, serving the cached snapshot when
// one is still fresh.
func (s *Service) Get() ([]ForecastPoint, error) {
	if cached, found := s.cache.Get(cacheKey); found {
		if points, ok := cached.([]ForecastPoint); ok {
			return points, nil
		}
	}
	return s.Refresh()
}

// Refresh fetches a new horizon from the provider and replaces the cached
// snapshot.
func (s *Service) Refresh() ([]ForecastPoint, error) {
	start := time.Now()
	points, err := s.provider.FetchForecast(s.settings)

	if s.metrics != nil {
		s.metrics.RecordFetchDuration(s.settings.Forecast.Provider, time.Since(start).Seconds())
		if err != nil {
			s.metrics.RecordFetch(s.settings.Forecast.Provider, "error")
			s.metrics.RecordFetchError(s.settings.Forecast.Provider, "fetch_error")
		} else {
			s.metrics.RecordFetch(s.settings.Forecast.Provider, "success")
		}
	}

	if err != nil {
		s.logger.Error("Failed to fetch forecast from provider",
			"provider", s.settings.Forecast.Provider,
			"error", err,
		)
		return nil, errors.New(err).
			Component("forecast").
			Category(errors.CategoryForecast).
			Context("operation", "fetch_forecast").
			Context("provider", s.settings.Forecast.Provider).
			Build()
	}

	s.cache.Set(cacheKey, points, cache.DefaultExpiration)

	maxErr := MaxPredictedError(points)
	maxKp := MaxKpIndex(points)
	if s.metrics != nil {
		s.metrics.UpdateHorizonGauges(maxErr, maxKp)
	}

	s.logger.Info("Fetched forecast horizon",
		"provider", s.settings.Forecast.Provider,
		"points", len(points),
		"max_error_m", maxErr,
		"max_kp", maxKp,
	)

	return points, nil
}

// StartPolling refreshes the forecast on the configured interval until
// stopChan closes.
func (s *Service) StartPolling(stopChan <-chan struct{}) {
	interval := time.Duration(s.settings.Forecast.PollInterval) * time.Minute

	s.logger.Info("Starting forecast polling",
		"provider", s.settings.Forecast.Provider,
		"interval_minutes", s.settings.Forecast.PollInterval,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if _, err := s.Refresh(); err != nil {
		s.logger.Warn("Initial forecast fetch failed", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if _, err := s.Refresh(); err != nil {
				s.logger.Warn("Forecast poll failed", "error", err)
			}
		case <-stopChan:
			s.logger.Info("Stopping forecast polling")
			return
		}
	}
}
