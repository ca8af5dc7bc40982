package weather

import (
	"context"
	"time"
)

// ForwardGeocoder resolves a city name to its single best coordinate match.
// Implementations return a NotFound error when the provider has no result.
type ForwardGeocoder interface {
	Search(ctx context.Context, city string) (Coordinates, error)
}

// ReverseGeocoder resolves a coordinate pair to a place.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
}

// ForecastFetcher fetches normalized current and daily weather for a
// coordinate pair. The returned response has no Location set.
type ForecastFetcher interface {
	Fetch(ctx context.Context, coords Coordinates) (WeatherResponse, error)
}

// Cache is the contract the in-memory store must satisfy.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration) bool
}
