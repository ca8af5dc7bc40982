package weather

import (
	"strconv"

	"github.com/i474232898/merry-weather/internal/common"
)

// Cache key namespaces. Geocoding and weather entries never share a key.
const (
	geocodingKeyPrefix   = "geocoding:"
	cityWeatherKeyPrefix = "weather:city:"
	coordWeatherPrefix   = "weather:coords:"
)

// Coordinates is a resolved location.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
}

// Place is the display name and country of a coordinate pair.
type Place struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// CurrentConditions is the normalized current weather. Temperature is in °C
// and WindSpeed in km/h, both rounded to the nearest integer.
type CurrentConditions struct {
	Temperature        int    `json:"temperature"`
	WindSpeed          int    `json:"windSpeed"`
	WeatherCode        int    `json:"weatherCode"`
	WeatherDescription string `json:"weatherDescription"`
	Time               string `json:"time"`
}

// ForecastDay is one day of the forecast.
type ForecastDay struct {
	Date               string  `json:"date"`
	MaxTemp            int     `json:"maxTemp"`
	MinTemp            int     `json:"minTemp"`
	WeatherCode        int     `json:"weatherCode"`
	WeatherDescription string  `json:"weatherDescription"`
	Precipitation      float64 `json:"precipitation"` // mm, one decimal
	WindSpeed          int     `json:"windSpeed"`
}

// WeatherResponse is current conditions plus the daily forecast for a location.
type WeatherResponse struct {
	Location Coordinates       `json:"location"`
	Current  CurrentConditions `json:"current"`
	Forecast []ForecastDay     `json:"forecast"`
}

// GeocodingKey returns the cache key for a forward lookup of city.
func GeocodingKey(city string) string {
	return geocodingKeyPrefix + common.NormalizeKey(city)
}

// CityWeatherKey returns the cache key for weather looked up by city name.
func CityWeatherKey(city string) string {
	return cityWeatherKeyPrefix + common.NormalizeKey(city)
}

// CoordsWeatherKey returns the cache key for weather looked up by coordinates.
// Both values are fixed to 4 decimals so near-identical GPS reads share an entry.
func CoordsWeatherKey(lat, lon float64) string {
	return coordWeatherPrefix + strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lon, 'f', 4, 64)
}
