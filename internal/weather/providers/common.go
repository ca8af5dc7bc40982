package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/i474232898/merry-weather/internal/weather"
)

const tracerName = "github.com/i474232898/merry-weather/internal/weather/providers"

var (
	errRateLimited  = errors.New("rate limited")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// endpoint bundles the HTTP client and circuit breaker of one upstream provider.
type endpoint struct {
	name    string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func newEndpoint(name string, client *http.Client) endpoint {
	return endpoint{
		name:   name,
		client: client,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:         name,
			MaxRequests:  5,
			Interval:     1 * time.Minute,
			Timeout:      2 * time.Minute,
			IsSuccessful: func(err error) bool { return err == nil || !tripsCircuit(err) },
		}),
	}
}

// getJSON performs a single request (no retries) and decodes a 2xx JSON body
// into out. Failures are classified into weather.Error values carrying op as
// their call context.
func (e endpoint) getJSON(
	ctx context.Context,
	op string,
	buildRequest func(ctx context.Context) (*http.Request, error),
	out any,
) error {
	if e.client == nil {
		return weather.Upstream(op, errNoHTTPClient)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, e.name, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := buildRequest(ctx)
	if err != nil {
		return weather.Upstream(op, err)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	span.SetAttributes(attribute.String("http.request.method", req.Method), attribute.String("url.full", req.URL.String()))

	_, err = e.circuit.Execute(func() (interface{}, error) {
		resp, execErr := e.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, errRateLimited
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}

		if decErr := json.NewDecoder(resp.Body).Decode(out); decErr != nil {
			return nil, fmt.Errorf("decoding %s response: %w", e.name, decErr)
		}
		return nil, nil
	})
	if err != nil {
		cerr := classify(op, err)
		span.RecordError(cerr)
		span.SetStatus(codes.Error, cerr.Error())
		return cerr
	}
	return nil
}

// tripsCircuit reports whether err counts toward opening the breaker.
// Throttling, timeouts and caller cancellation pass through with their own
// classification instead.
func tripsCircuit(err error) bool {
	if errors.Is(err, errRateLimited) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return false
	}
	return true
}

// classify maps a transport/HTTP failure onto the weather error taxonomy.
func classify(op string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return weather.Upstream(op, fmt.Errorf("%w: %v", errCircuitOpen, err))
	}
	if errors.Is(err, errRateLimited) {
		return weather.RateLimited(op, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return weather.Timeout(op, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return weather.Timeout(op, err)
	}
	return weather.Upstream(op, err)
}
