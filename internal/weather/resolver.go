package weather

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// FallbackPlace is returned in place of a failed reverse lookup.
var FallbackPlace = Place{Name: "your location", Country: "GPS"}

// Resolver performs forward lookups through the cache and best-effort reverse lookups.
type Resolver struct {
	forward ForwardGeocoder
	reverse ReverseGeocoder
	cache   Cache
	ttl     time.Duration
	logger  zerolog.Logger
}

// NewResolver creates a Resolver caching forward lookups for ttl.
func NewResolver(forward ForwardGeocoder, reverse ReverseGeocoder, cache Cache, ttl time.Duration, logger zerolog.Logger) *Resolver {
	return &Resolver{
		forward: forward,
		reverse: reverse,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// Forward resolves city to coordinates, consulting the geocoding cache first.
// Failed lookups are not cached.
func (r *Resolver) Forward(ctx context.Context, city string) (Coordinates, error) {
	key := GeocodingKey(city)
	if v, ok := r.cache.Get(key); ok {
		if coords, ok := v.(Coordinates); ok {
			return coords, nil
		}
	}

	coords, err := r.forward.Search(ctx, city)
	if err != nil {
		return Coordinates{}, err
	}

	r.cache.Set(key, coords, r.ttl)
	return coords, nil
}

// Reverse resolves lat/lon to a place. It never fails: any error is logged and
// replaced by FallbackPlace. Results are not cached.
func (r *Resolver) Reverse(ctx context.Context, lat, lon float64) Place {
	place, err := r.reverse.Reverse(ctx, lat, lon)
	if err != nil {
		r.logger.Warn().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("reverse geocoding failed; using placeholder")
	}
	return placeOrFallback(place, err)
}

func placeOrFallback(place Place, err error) Place {
	if err != nil {
		return FallbackPlace
	}
	return place
}
