package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/merry-weather/internal/store"
)

func TestPlaceOrFallback(t *testing.T) {
	ok := Place{Name: "Lyon", Country: "France"}
	assert.Equal(t, ok, placeOrFallback(ok, nil))
	assert.Equal(t, FallbackPlace, placeOrFallback(ok, errors.New("boom")))
	assert.Equal(t, FallbackPlace, placeOrFallback(Place{}, Timeout("reverse geocoding", context.DeadlineExceeded)))
}

func TestResolver_ForwardNormalizesKey(t *testing.T) {
	cache := store.NewMemoryStore()
	geo := &fakeGeocoder{results: map[string]Coordinates{
		"Paris": {Latitude: 48.8566, Longitude: 2.3522, Name: "Paris", Country: "France"},
	}}
	r := NewResolver(geo, &fakeReverse{}, cache, time.Hour, zerolog.Nop())

	first, err := r.Forward(context.Background(), "Paris")
	require.NoError(t, err)

	// "  paris " is absent from the fake provider, so this only succeeds via the cache.
	second, err := r.Forward(context.Background(), "  paris ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), geo.calls.Load())
	assert.Equal(t, []string{"geocoding:paris"}, cache.Keys())
}

func TestResolver_ForwardErrorNotCached(t *testing.T) {
	cache := store.NewMemoryStore()
	geo := &fakeGeocoder{err: Timeout("resolving coordinates for Paris", context.DeadlineExceeded)}
	r := NewResolver(geo, &fakeReverse{}, cache, time.Hour, zerolog.Nop())

	_, err := r.Forward(context.Background(), "Paris")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Empty(t, cache.Keys())
}

func TestResolver_ReverseNeverFails(t *testing.T) {
	rev := &fakeReverse{err: errors.New("malformed response")}
	r := NewResolver(&fakeGeocoder{}, rev, store.NewMemoryStore(), time.Hour, zerolog.Nop())

	assert.Equal(t, FallbackPlace, r.Reverse(context.Background(), 10, 20))

	rev.err = nil
	rev.place = Place{Name: "Marseille", Country: "France"}
	assert.Equal(t, rev.place, r.Reverse(context.Background(), 10, 20))
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "geocoding:paris", GeocodingKey("  Paris "))
	assert.Equal(t, "weather:city:new york", CityWeatherKey("New York"))
	assert.Equal(t, "weather:coords:48.8566,2.3522", CoordsWeatherKey(48.85661, 2.352220))
	assert.Equal(t, "weather:coords:-23.5505,-46.6333", CoordsWeatherKey(-23.55052, -46.63331))
	assert.Equal(t, "weather:coords:0.0000,0.0000", CoordsWeatherKey(0, 0))
}

func TestErrorMessages(t *testing.T) {
	err := NotFound("Atlantis")
	assert.Equal(t, `city "Atlantis" not found`, err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrUpstream))

	err = Upstream(OpFetchWeather, errors.New("unexpected status code: 500"))
	assert.Equal(t, "error fetching weather data: unexpected status code: 500", err.Error())

	err = Timeout("resolving coordinates for Paris", nil)
	assert.Equal(t, "timeout while resolving coordinates for Paris", err.Error())
	assert.True(t, errors.Is(err, ErrTimeout))

	var werr *Error
	require.True(t, errors.As(RateLimited(OpFetchWeather, nil), &werr))
	assert.Equal(t, OpFetchWeather, werr.Op)
}
