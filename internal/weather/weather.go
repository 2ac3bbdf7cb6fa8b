// Package weather decorates the dashboard with current surface conditions at
// the unit location. It is purely presentational: a fetch failure degrades to
// an absent weather block and never affects risk classification.
package weather

import (
	"fmt"
	"time"

	"github.com/now-man/a4s-dshbrd-250831/internal/conf"
	"github.com/now-man/a4s-dshbrd-250831/internal/errors"
)

// HTTP client behavior shared by providers.
const (
	RequestTimeout = 10 * time.Second
	MaxRetries     = 3
	RetryDelay     = 2 * time.Second
	UserAgent      = "a4s-dashboard"
)

// WeatherData represents the common structure for weather data across providers
type WeatherData struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	WindSpeed   float64   `json:"windSpeed"`
	Humidity    int       `json:"humidity"`
	Pressure    int       `json:"pressure"`
	Clouds      int       `json:"clouds"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
}

// Provider represents a weather data provider interface
type Provider interface {
	FetchWeather(settings *conf.Settings) (*WeatherData, error)
}

// NewProvider selects a provider from configuration. "none" yields a nil
// provider; callers treat that as weather disabled.
func NewProvider(settings *conf.Settings) (Provider, error) {
	switch settings.Weather.Provider {
	case "none":
		return nil, nil
	case "openweather":
		return NewOpenWeatherProvider(), nil
	default:
		return nil, errors.New(fmt.Errorf("invalid weather provider: %s", settings.Weather.Provider)).
			Component("weather").
			Category(errors.CategoryConfiguration).
			Context("provider", settings.Weather.Provider).
			Build()
	}
}
