package providers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/i474232898/merry-weather/internal/weather"
)

// DefaultGeocodingURL is the Open-Meteo forward geocoding endpoint.
const DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// OpenMeteoGeocoder implements weather.ForwardGeocoder.
type OpenMeteoGeocoder struct {
	baseURL  string
	language string
	endpoint endpoint
}

// NewOpenMeteoGeocoder creates a geocoder asking for a single best match in language.
// An empty baseURL selects DefaultGeocodingURL.
func NewOpenMeteoGeocoder(client *http.Client, baseURL, language string) *OpenMeteoGeocoder {
	if baseURL == "" {
		baseURL = DefaultGeocodingURL
	}
	return &OpenMeteoGeocoder{
		baseURL:  baseURL,
		language: language,
		endpoint: newEndpoint("openmeteo-geocoding", client),
	}
}

// Search resolves city to coordinates. It returns a weather.ErrNotFound error
// when the provider has no result.
func (g *OpenMeteoGeocoder) Search(ctx context.Context, city string) (weather.Coordinates, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("name", city)
		values.Set("count", "1")
		values.Set("language", g.language)
		values.Set("format", "json")

		return http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+values.Encode(), nil)
	}

	var payload struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Name      string  `json:"name"`
			Country   string  `json:"country"`
		} `json:"results"`
	}

	if err := g.endpoint.getJSON(ctx, "resolving coordinates for "+city, buildRequest, &payload); err != nil {
		return weather.Coordinates{}, err
	}
	if len(payload.Results) == 0 {
		return weather.Coordinates{}, weather.NotFound(city)
	}

	r := payload.Results[0]
	return weather.Coordinates{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Name:      r.Name,
		Country:   r.Country,
	}, nil
}
