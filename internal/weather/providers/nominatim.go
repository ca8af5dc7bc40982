package providers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/i474232898/merry-weather/internal/common"
	"github.com/i474232898/merry-weather/internal/weather"
)

// DefaultReverseURL is the Nominatim reverse geocoding endpoint.
const DefaultReverseURL = "https://nominatim.openstreetmap.org/reverse"

// UnknownLocation names a place whose address has no usable locality.
const UnknownLocation = "unknown location"

// UnknownCountry stands in for an address without a country.
const UnknownCountry = "unknown country"

const opReverse = "reverse geocoding"

var errNoAddress = errors.New("response has no address")

// NominatimProvider implements weather.ReverseGeocoder for OpenStreetMap Nominatim.
type NominatimProvider struct {
	baseURL   string
	userAgent string
	language  string
	endpoint  endpoint
}

// NewNominatimProvider creates a reverse geocoder identifying itself with
// userAgent, as the Nominatim usage policy requires. An empty baseURL selects DefaultReverseURL.
func NewNominatimProvider(client *http.Client, baseURL, userAgent, language string) *NominatimProvider {
	if baseURL == "" {
		baseURL = DefaultReverseURL
	}
	return &NominatimProvider{
		baseURL:   baseURL,
		userAgent: userAgent,
		language:  language,
		endpoint:  newEndpoint("nominatim-reverse", client),
	}
}

// Reverse resolves lat/lon to a place. The name is the first of city, town,
// village, suburb and city_district that is present, else UnknownLocation.
// A missing country becomes UnknownCountry.
func (p *NominatimProvider) Reverse(ctx context.Context, lat, lon float64) (weather.Place, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
		values.Set("format", "json")
		values.Set("addressdetails", "1")
		values.Set("accept_language", p.language)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", p.userAgent)
		return req, nil
	}

	var payload struct {
		Address *struct {
			City         string `json:"city"`
			Town         string `json:"town"`
			Village      string `json:"village"`
			Suburb       string `json:"suburb"`
			CityDistrict string `json:"city_district"`
			Country      string `json:"country"`
		} `json:"address"`
	}

	if err := p.endpoint.getJSON(ctx, opReverse, buildRequest, &payload); err != nil {
		return weather.Place{}, err
	}
	if payload.Address == nil {
		return weather.Place{}, weather.Upstream(opReverse, errNoAddress)
	}

	a := payload.Address
	return weather.Place{
		Name:    common.FirstNonEmpty(UnknownLocation, a.City, a.Town, a.Village, a.Suburb, a.CityDistrict),
		Country: common.FirstNonEmpty(UnknownCountry, a.Country),
	}, nil
}
