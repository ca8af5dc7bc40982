package providers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/i474232898/merry-weather/internal/weather"
)

// DefaultForecastURL is the Open-Meteo forecast endpoint.
const DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

// Fixed forecast request parameters.
const (
	currentFields = "temperature_2m,wind_speed_10m,weather_code"
	dailyFields   = "temperature_2m_max,temperature_2m_min,weather_code,precipitation_sum,wind_speed_10m_max"
	forecastDays  = "7"
	timezone      = "auto"
)

// OpenMeteoProvider implements weather.ForecastFetcher for Open-Meteo.
type OpenMeteoProvider struct {
	baseURL  string
	endpoint endpoint
}

// NewOpenMeteoProvider creates a forecast fetcher. An empty baseURL selects DefaultForecastURL.
func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultForecastURL
	}
	return &OpenMeteoProvider{
		baseURL:  baseURL,
		endpoint: newEndpoint("openmeteo-forecast", client),
	}
}

// Fetch returns normalized current conditions and a 7-day forecast for coords.
// The returned Location is left empty for the caller to fill.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, coords weather.Coordinates) (weather.WeatherResponse, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
		values.Set("current", currentFields)
		values.Set("daily", dailyFields)
		values.Set("timezone", timezone)
		values.Set("forecast_days", forecastDays)

		return http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
	}

	var raw weather.RawForecast
	if err := p.endpoint.getJSON(ctx, weather.OpFetchWeather, buildRequest, &raw); err != nil {
		return weather.WeatherResponse{}, err
	}

	return weather.Normalize(raw)
}
