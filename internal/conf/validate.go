// conf/validate.go settings validation
package conf

import (
	"github.com/now-man/a4s-dshbrd-250831/internal/errors"
)

// ValidateSettings checks the loaded settings for values the service cannot
// start with. Validation failures are configuration errors, not warnings.
func ValidateSettings(settings *Settings) error {
	if err := validateUnitSettings(&settings.Unit); err != nil {
		return err
	}
	if err := validateForecastSettings(&settings.Forecast); err != nil {
		return err
	}
	if err := validateWeatherSettings(&settings.Weather); err != nil {
		return err
	}
	return validateOutputSettings(&settings.Output)
}

func validateUnitSettings(unit *UnitSettings) error {
	if unit.DefaultThreshold <= 0 {
		return errors.Newf("unit default threshold must be positive, got %v", unit.DefaultThreshold).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("field", "unit.defaultthreshold").
			Build()
	}
	if unit.Latitude < -90 || unit.Latitude > 90 {
		return errors.Newf("unit latitude out of range: %v", unit.Latitude).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("field", "unit.latitude").
			Build()
	}
	if unit.Longitude < -180 || unit.Longitude > 180 {
		return errors.Newf("unit longitude out of range: %v", unit.Longitude).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("field", "unit.longitude").
			Build()
	}
	return nil
}

func validateForecastSettings(forecast *ForecastSettings) error {
	if forecast.Provider != "mock" {
		return errors.Newf("unknown forecast provider: %s", forecast.Provider).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("field", "forecast.provider").
			Build()
	}
	if forecast.HorizonHours <= 0 {
		return errors.Newf("forecast horizon must be positive, got %d", forecast.HorizonHours).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("field", "forecast.horizonhours").
			Build()
	}
	if forecast.PollInterval <= 0 {
		return errors.Newf("forecast poll interval must be positive, got %d", forecast.PollInterval).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("field", "forecast.pollinterval").
			Build()
	}
	return nil
}

func validateWeatherSettings(weather *WeatherSettings) error {
	switch weather.Provider {
	case "none", "openweather":
	default:
		return errors.Newf("unknown weather provider: %s", weather.Provider).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("field", "weather.provider").
			Build()
	}
	if weather.Provider == "openweather" && weather.OpenWeather.APIKey == "" {
		return errors.Newf("openweather provider requires an API key").
			Component("conf").
			Category(errors.CategoryValidation).
			Context("field", "weather.openweather.apikey").
			Build()
	}
	return nil
}

func validateOutputSettings(output *OutputSettings) error {
	if !output.SQLite.Enabled && !output.MySQL.Enabled {
		return errors.Newf("no database backend enabled").
			Component("conf").
			Category(errors.CategoryValidation).
			Context("field", "output").
			Build()
	}
	if output.SQLite.Enabled && output.MySQL.Enabled {
		return errors.Newf("only one database backend may be enabled").
			Component("conf").
			Category(errors.CategoryValidation).
			Context("field", "output").
			Build()
	}
	if output.SQLite.Enabled && output.SQLite.Path == "" {
		return errors.Newf("sqlite enabled but path is empty").
			Component("conf").
			Category(errors.CategoryValidation).
			Context("field", "output.sqlite.path").
			Build()
	}
	return nil
}
