package api

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/now-man/a4s-dshbrd-250831/internal/forecast"
)

// initForecastRoutes registers forecast-related API endpoints
func (c *Controller) initForecastRoutes() {
	c.Group.GET("/forecast", c.GetForecast)
	c.Group.POST("/forecast/refresh", c.RefreshForecast)
}

// ForecastResponse wraps the horizon series with its derived maxima.
type ForecastResponse struct {
	Points            []forecast.ForecastPoint `json:"points"`
	MaxPredictedError float64                  `json:"maxPredictedError"`
	MaxKpIndex        float64                  `json:"maxKpIndex"`
}

// GetForecast handles GET /api/v2/forecast
func (c *Controller) GetForecast(ctx echo.Context) error {
	points, err := c.Forecast.Get()
	if err != nil {
		return c.HandleStoreError(ctx, err, "Failed to fetch forecast")
	}
	return ctx.JSON(http.StatusOK, forecastResponse(points))
}

// RefreshForecast handles POST /api/v2/forecast/refresh, bypassing the cache.
func (c *Controller) RefreshForecast(ctx echo.Context) error {
	points, err := c.Forecast.Refresh()
	if err != nil {
		return c.HandleStoreError(ctx, err, "Failed to refresh forecast")
	}

	c.logAPIRequest(ctx, slog.LevelInfo, "Forecast refreshed", "points", len(points))
	return ctx.JSON(http.StatusOK, forecastResponse(points))
}

func forecastResponse(points []forecast.ForecastPoint) *ForecastResponse {
	return &ForecastResponse{
		Points:            points,
		MaxPredictedError: forecast.MaxPredictedError(points),
		MaxKpIndex:        forecast.MaxKpIndex(points),
	}
}
