package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type AppConfig struct {
	Port string `env:"PORT" envDefault:"3000" validate:"required,numeric"`

	// Cache policy, in seconds as in the original deployment's .env files.
	CheckPeriodSeconds  int `env:"CHECK_PERIOD" envDefault:"120" validate:"gt=0"`
	WeatherTTLSeconds   int `env:"WEATHER_TTL" envDefault:"600" validate:"gt=0"`
	GeocodingTTLSeconds int `env:"GEOCODING_TTL" envDefault:"3600" validate:"gt=0"`

	// Bound on every upstream call.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"5s" validate:"gt=0"`

	GeocodingLanguage string `env:"GEOCODING_LANGUAGE" envDefault:"en" validate:"required"`
	ReverseLanguage   string `env:"REVERSE_LANGUAGE" envDefault:"en" validate:"required"`
	UserAgent         string `env:"USER_AGENT" envDefault:"MerryWeatherApp/1.0" validate:"required"`

	// Upstream base URLs; empty selects the provider default.
	GeocodingURL string `env:"GEOCODING_URL" validate:"omitempty,url"`
	ForecastURL  string `env:"FORECAST_URL" validate:"omitempty,url"`
	ReverseURL   string `env:"REVERSE_URL" validate:"omitempty,url"`

	CoalesceRequests bool `env:"COALESCE_REQUESTS" envDefault:"false"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console" validate:"oneof=console json"`

	TraceExporter string `env:"TRACE_EXPORTER" envDefault:"none" validate:"oneof=none stdout zipkin"`
	ZipkinURL     string `env:"ZIPKIN_URL" envDefault:"http://localhost:9411/api/v2/spans" validate:"omitempty,url"`
}

// CheckPeriod is the interval of the background cache sweep.
func (c *AppConfig) CheckPeriod() time.Duration {
	return time.Duration(c.CheckPeriodSeconds) * time.Second
}

// WeatherTTL is the lifetime of weather cache entries.
func (c *AppConfig) WeatherTTL() time.Duration {
	return time.Duration(c.WeatherTTLSeconds) * time.Second
}

// GeocodingTTL is the lifetime of forward-geocoding cache entries.
func (c *AppConfig) GeocodingTTL() time.Duration {
	return time.Duration(c.GeocodingTTLSeconds) * time.Second
}

// Load reads configuration from a .env file (if any) and the environment,
// applying defaults, then validates it.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return Parse()
}

// Parse binds and validates configuration from the environment only.
func Parse() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
