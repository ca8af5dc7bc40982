package weather

import (
	"errors"
	"fmt"
)

// Failure kinds. Use errors.Is to test an error returned by this package.
var (
	ErrNotFound    = errors.New("location not found")
	ErrTimeout     = errors.New("upstream timeout")
	ErrRateLimited = errors.New("upstream rate limited")
	ErrUpstream    = errors.New("upstream failure")
)

// Error is a classified upstream failure.
type Error struct {
	Kind  error  // one of ErrNotFound, ErrTimeout, ErrRateLimited, ErrUpstream
	Op    string // e.g. "fetching weather data"
	Query string // city name for ErrNotFound
	Err   error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrNotFound:
		return fmt.Sprintf("city %q not found", e.Query)
	case ErrTimeout:
		return "timeout while " + e.Op
	case ErrRateLimited:
		return "too many requests while " + e.Op + "; try again later"
	}
	if e.Err != nil {
		return fmt.Sprintf("error %s: %v", e.Op, e.Err)
	}
	return "error " + e.Op
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound reports that geocoding returned no result for city.
func NotFound(city string) error {
	return &Error{Kind: ErrNotFound, Op: "resolving coordinates for " + city, Query: city}
}

// Upstream wraps err as an ErrUpstream failure during op.
func Upstream(op string, err error) error {
	return &Error{Kind: ErrUpstream, Op: op, Err: err}
}

// Timeout wraps err as an ErrTimeout failure during op.
func Timeout(op string, err error) error {
	return &Error{Kind: ErrTimeout, Op: op, Err: err}
}

// RateLimited wraps err as an ErrRateLimited failure during op.
func RateLimited(op string, err error) error {
	return &Error{Kind: ErrRateLimited, Op: op, Err: err}
}
