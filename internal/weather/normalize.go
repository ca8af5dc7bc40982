package weather

import (
	"fmt"
	"math"
)

// OpFetchWeather is the call context attached to forecast failures.
const OpFetchWeather = "fetching weather data"

// RawForecast is the Open-Meteo forecast payload. Daily values are parallel arrays.
type RawForecast struct {
	Current struct {
		Time          string  `json:"time"`
		Temperature2m float64 `json:"temperature_2m"`
		WindSpeed10m  float64 `json:"wind_speed_10m"`
		WeatherCode   int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Time             []string  `json:"time"`
		Temperature2mMax []float64 `json:"temperature_2m_max"`
		Temperature2mMin []float64 `json:"temperature_2m_min"`
		WeatherCode      []int     `json:"weather_code"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
		WindSpeed10mMax  []float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// Normalize converts a raw forecast into a WeatherResponse without a location.
// Temperatures and wind speeds are rounded to integers and precipitation to one
// decimal. The daily arrays must all have the length of the date array.
func Normalize(raw RawForecast) (WeatherResponse, error) {
	d := raw.Daily
	n := len(d.Time)
	lengths := []struct {
		field string
		n     int
	}{
		{"temperature_2m_max", len(d.Temperature2mMax)},
		{"temperature_2m_min", len(d.Temperature2mMin)},
		{"weather_code", len(d.WeatherCode)},
		{"precipitation_sum", len(d.PrecipitationSum)},
		{"wind_speed_10m_max", len(d.WindSpeed10mMax)},
	}
	for _, l := range lengths {
		if l.n != n {
			return WeatherResponse{}, Upstream(OpFetchWeather,
				fmt.Errorf("daily %s has %d values, expected %d", l.field, l.n, n))
		}
	}

	forecast := make([]ForecastDay, n)
	for i := range n {
		forecast[i] = ForecastDay{
			Date:               d.Time[i],
			MaxTemp:            roundInt(d.Temperature2mMax[i]),
			MinTemp:            roundInt(d.Temperature2mMin[i]),
			WeatherCode:        d.WeatherCode[i],
			WeatherDescription: Describe(d.WeatherCode[i]),
			Precipitation:      roundTenth(d.PrecipitationSum[i]),
			WindSpeed:          roundInt(d.WindSpeed10mMax[i]),
		}
	}

	c := raw.Current
	return WeatherResponse{
		Current: CurrentConditions{
			Temperature:        roundInt(c.Temperature2m),
			WindSpeed:          roundInt(c.WindSpeed10m),
			WeatherCode:        c.WeatherCode,
			WeatherDescription: Describe(c.WeatherCode),
			Time:               c.Time,
		},
		Forecast: forecast,
	}, nil
}

// roundInt rounds half up, so -2.5 becomes -2.
func roundInt(v float64) int {
	return int(math.Floor(v + 0.5))
}

func roundTenth(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
