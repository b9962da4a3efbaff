/*
Package config loads the engine's runtime settings.

PURPOSE:
  One YAML file plus APP_* environment overrides. Every knob has a default
  so the binary starts with no config file at all, which is how the desk
  machine actually runs it.
*/
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Storage struct {
		Path string
	} `mapstructure:"storage"`

	Units struct {
		Count      int
		HourlyRate int64 `mapstructure:"hourly_rate"`
	} `mapstructure:"units"`
}

// Load reads path if it exists and applies APP_* environment overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "Asia/Jakarta")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("storage.path", "rental-engine.db")
	v.SetDefault("units.count", 4)
	v.SetDefault("units.hourly_rate", 6000)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if c.Units.Count < 1 {
		return Config{}, fmt.Errorf("units.count must be at least 1, got %d", c.Units.Count)
	}
	if c.Units.HourlyRate <= 0 {
		return Config{}, fmt.Errorf("units.hourly_rate must be positive, got %d", c.Units.HourlyRate)
	}
	return c, nil
}
