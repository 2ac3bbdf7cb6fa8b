// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "A4S-Dashboard")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "a4s.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)

	// Unit defaults seed the persisted profile on first run only. After the
	// profile exists the datastore copy is authoritative.
	viper.SetDefault("unit.name", "17th Fighter Wing")
	viper.SetDefault("unit.defaultthreshold", 10.0)
	viper.SetDefault("unit.latitude", 36.64)
	viper.SetDefault("unit.longitude", 127.49)
	viper.SetDefault("unit.timezone", "Asia/Seoul")

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8090")
	viper.SetDefault("webserver.debug", false)

	viper.SetDefault("forecast.provider", "mock")
	viper.SetDefault("forecast.pollinterval", 60)
	viper.SetDefault("forecast.horizonhours", 24)
	viper.SetDefault("forecast.seed", 0)
	viper.SetDefault("forecast.debug", false)

	viper.SetDefault("sample.cadenceminutes", 1)

	viper.SetDefault("weather.provider", "none")
	viper.SetDefault("weather.pollinterval", 30)
	viper.SetDefault("weather.debug", false)
	viper.SetDefault("weather.openweather.apikey", "")
	viper.SetDefault("weather.openweather.endpoint", "https://api.openweathermap.org/data/2.5/weather")
	viper.SetDefault("weather.openweather.units", "metric")
	viper.SetDefault("weather.openweather.language", "en")

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "a4s.db")
	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "a4s")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.database", "a4s")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")
}
