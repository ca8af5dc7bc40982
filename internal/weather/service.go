package weather

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const tracerName = "github.com/i474232898/merry-weather/internal/weather"

// ServiceName identifies the upstream weather source in ServiceInfo.
const ServiceName = "Open-Meteo API"

// Config holds the cache policy of the Service.
type Config struct {
	WeatherTTL   time.Duration
	GeocodingTTL time.Duration

	// Coalesce collapses concurrent misses on the same cache key into one
	// upstream sequence. Off by default: concurrent misses each fetch and the
	// last write wins.
	Coalesce bool
}

// ServiceInfo describes the cache configuration for diagnostics.
type ServiceInfo struct {
	Service string    `json:"service"`
	Cache   CacheInfo `json:"cache"`
}

// CacheInfo lists the configured TTLs.
type CacheInfo struct {
	WeatherTTL          string `json:"weatherTTL"`
	GeocodingTTL        string `json:"geocodingTTL"`
	WeatherTTLSeconds   int    `json:"weatherTTLSeconds"`
	GeocodingTTLSeconds int    `json:"geocodingTTLSeconds"`
}

// Service orchestrates geocoding, forecast fetching and caching.
type Service struct {
	cache    Cache
	resolver *Resolver
	fetcher  ForecastFetcher
	cfg      Config

	group  *singleflight.Group
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewService creates a new Service.
func NewService(cache Cache, resolver *Resolver, fetcher ForecastFetcher, cfg Config, logger zerolog.Logger) *Service {
	s := &Service{
		cache:    cache,
		resolver: resolver,
		fetcher:  fetcher,
		cfg:      cfg,
		tracer:   otel.Tracer(tracerName),
		logger:   logger,
	}
	if cfg.Coalesce {
		s.group = &singleflight.Group{}
	}
	return s
}

// GetWeather returns current weather and the forecast for city.
func (s *Service) GetWeather(ctx context.Context, city string) (WeatherResponse, error) {
	ctx, span := s.tracer.Start(ctx, "weather.GetWeather",
		trace.WithAttributes(attribute.String("weather.city", city)))
	defer span.End()

	resp, err := s.cached(ctx, span, CityWeatherKey(city), func(ctx context.Context) (WeatherResponse, error) {
		coords, err := s.resolver.Forward(ctx, city)
		if err != nil {
			return WeatherResponse{}, err
		}
		return s.fetch(ctx, coords)
	})
	if err != nil {
		recordError(span, err)
	}
	return resp, err
}

// GetWeatherByCoords returns current weather and the forecast for lat/lon.
// A failed reverse lookup does not fail the call; the location then carries
// the FallbackPlace name and country.
func (s *Service) GetWeatherByCoords(ctx context.Context, lat, lon float64) (WeatherResponse, error) {
	ctx, span := s.tracer.Start(ctx, "weather.GetWeatherByCoords",
		trace.WithAttributes(attribute.Float64("weather.lat", lat), attribute.Float64("weather.lon", lon)))
	defer span.End()

	resp, err := s.cached(ctx, span, CoordsWeatherKey(lat, lon), func(ctx context.Context) (WeatherResponse, error) {
		place := s.resolver.Reverse(ctx, lat, lon)
		return s.fetch(ctx, Coordinates{
			Latitude:  lat,
			Longitude: lon,
			Name:      place.Name,
			Country:   place.Country,
		})
	})
	if err != nil {
		recordError(span, err)
	}
	return resp, err
}

// Info returns the configured TTLs. It has no side effects.
func (s *Service) Info() ServiceInfo {
	return ServiceInfo{
		Service: ServiceName,
		Cache: CacheInfo{
			WeatherTTL:          formatUnits(s.cfg.WeatherTTL.Minutes()) + "min",
			GeocodingTTL:        formatUnits(s.cfg.GeocodingTTL.Hours()) + "h",
			WeatherTTLSeconds:   int(s.cfg.WeatherTTL / time.Second),
			GeocodingTTLSeconds: int(s.cfg.GeocodingTTL / time.Second),
		},
	}
}

func (s *Service) fetch(ctx context.Context, coords Coordinates) (WeatherResponse, error) {
	resp, err := s.fetcher.Fetch(ctx, coords)
	if err != nil {
		return WeatherResponse{}, err
	}
	resp.Location = coords
	return resp, nil
}

// cached implements cache-aside on key with the weather TTL. Nothing is
// written when load fails. With coalescing on, load runs detached from the
// cancellation of the caller that started it.
func (s *Service) cached(
	ctx context.Context,
	span trace.Span,
	key string,
	load func(context.Context) (WeatherResponse, error),
) (WeatherResponse, error) {
	if v, ok := s.cache.Get(key); ok {
		if resp, ok := v.(WeatherResponse); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return resp, nil
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	populate := func(ctx context.Context) (WeatherResponse, error) {
		resp, err := load(ctx)
		if err != nil {
			return WeatherResponse{}, err
		}
		s.cache.Set(key, resp, s.cfg.WeatherTTL)
		return resp, nil
	}

	if s.group == nil {
		return populate(ctx)
	}

	// The shared load outlives a canceled leader so waiting callers still get
	// its result. The HTTP client timeout bounds it.
	v, err, shared := s.group.Do(key, func() (any, error) {
		return populate(context.WithoutCancel(ctx))
	})
	if shared {
		s.logger.Debug().Str("key", key).Msg("coalesced concurrent cache miss")
	}
	if err != nil {
		return WeatherResponse{}, err
	}
	return v.(WeatherResponse), nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func formatUnits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
