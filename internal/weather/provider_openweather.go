package weather

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/now-man/a4s-dshbrd-250831/internal/conf"
)

// OpenWeatherProvider fetches current conditions from the OpenWeather API.
type OpenWeatherProvider struct {
	client *http.Client
}

// NewOpenWeatherProvider creates a new OpenWeather provider.
func NewOpenWeatherProvider() *OpenWeatherProvider {
	return &OpenWeatherProvider{
		client: &http.Client{Timeout: RequestTimeout},
	}
}

// OpenWeatherResponse represents the structure of weather data returned by the OpenWeather API
type OpenWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Pressure int     `json:"pressure"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Name string `json:"name"`
}

// FetchWeather implements the Provider interface for OpenWeatherProvider
func (p *OpenWeatherProvider) FetchWeather(settings *conf.Settings) (*WeatherData, error) {
	ow := settings.Weather.OpenWeather
	if ow.APIKey == "" {
		return nil, fmt.Errorf("OpenWeather API key not configured")
	}

	url := fmt.Sprintf("%s?lat=%.3f&lon=%.3f&appid=%s&units=%s&lang=%s",
		ow.Endpoint,
		settings.Unit.Latitude,
		settings.Unit.Longitude,
		ow.APIKey,
		ow.Units,
		ow.Language,
	)

	req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	var weatherData OpenWeatherResponse
	for i := 0; i < MaxRetries; i++ {
		resp, err := p.client.Do(req)
		if err != nil {
			if i == MaxRetries-1 {
				return nil, fmt.Errorf("error fetching weather data: %w", err)
			}
			time.Sleep(RetryDelay)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			if i == MaxRetries-1 {
				return nil, fmt.Errorf("received non-200 response: %d", resp.StatusCode)
			}
			time.Sleep(RetryDelay)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("error reading response body: %w", err)
		}

		if err := json.Unmarshal(body, &weatherData); err != nil {
			return nil, fmt.Errorf("error unmarshaling weather data: %w", err)
		}

		break
	}

	if len(weatherData.Weather) == 0 {
		return nil, fmt.Errorf("no weather conditions returned from API")
	}

	return &WeatherData{
		Time:        time.Unix(weatherData.Dt, 0),
		Temperature: weatherData.Main.Temp,
		WindSpeed:   weatherData.Wind.Speed,
		Humidity:    weatherData.Main.Humidity,
		Pressure:    weatherData.Main.Pressure,
		Clouds:      weatherData.Clouds.All,
		Description: weatherData.Weather[0].Description,
		Icon:        weatherData.Weather[0].Icon,
		City:        weatherData.Name,
		Country:     weatherData.Sys.Country,
	}, nil
}
