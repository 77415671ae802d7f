// internal/geo/locator.go
package geo

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type Reason string

const (
	ReasonPermissionDenied    Reason = "permission_denied"
	ReasonPositionUnavailable Reason = "position_unavailable"
	ReasonTimeout             Reason = "timeout"
)

var reasonMessages = map[Reason]string{
	ReasonPermissionDenied:    "GPS access denied. Please enable location permissions.",
	ReasonPositionUnavailable: "GPS position unavailable. Please try again.",
	ReasonTimeout:             "GPS request timed out. Please try again.",
}

// LocationError is the only error type Locate returns.
type LocationError struct {
	Reason Reason
	Err    error
}

func (e *LocationError) Error() string {
	return reasonMessages[e.Reason]
}

func (e *LocationError) Unwrap() error {
	return e.Err
}

// ErrPermissionDenied lets a Source report a refused lookup.
var ErrPermissionDenied = errors.New("geo: permission denied")

// Source produces a fresh fix for a key (a device, a plot, a field agent).
type Source interface {
	Position(ctx context.Context, key string) (Position, error)
}

type SourceFunc func(ctx context.Context, key string) (Position, error)

func (f SourceFunc) Position(ctx context.Context, key string) (Position, error) {
	return f(ctx, key)
}

type cachedFix struct {
	pos Position
	at  time.Time
}

// Locator bounds each lookup by a timeout and reuses fixes younger than
// maxAge. Concurrent lookups for one key share a single source call. There
// are no retries.
type Locator struct {
	source  Source
	timeout time.Duration
	maxAge  time.Duration
	now     func() time.Time

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]cachedFix
}

func NewLocator(source Source, timeout, maxAge time.Duration) *Locator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxAge < 0 {
		maxAge = 0
	}
	return &Locator{
		source:  source,
		timeout: timeout,
		maxAge:  maxAge,
		now:     time.Now,
		cache:   make(map[string]cachedFix),
	}
}

func (l *Locator) Locate(ctx context.Context, key string) (Position, error) {
	if pos, ok := l.cached(key); ok {
		return pos, nil
	}

	// The shared lookup ignores caller cancellation; each caller stops
	// waiting on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(shared, l.timeout)
		defer cancel()

		pos, err := l.source.Position(lookupCtx, key)
		if err != nil {
			return Position{}, classify(lookupCtx, err)
		}

		l.mu.Lock()
		l.cache[key] = cachedFix{pos: pos, at: l.now()}
		l.mu.Unlock()
		return pos, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Position{}, res.Err
		}
		return res.Val.(Position), nil
	case <-ctx.Done():
		return Position{}, classify(ctx, ctx.Err())
	}
}

func (l *Locator) cached(key string) (Position, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fix, ok := l.cache[key]
	if !ok || l.maxAge == 0 || l.now().Sub(fix.at) > l.maxAge {
		return Position{}, false
	}
	return fix.pos, true
}

func classify(ctx context.Context, err error) *LocationError {
	var le *LocationError
	if errors.As(err, &le) {
		return le
	}
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return &LocationError{Reason: ReasonPermissionDenied, Err: err}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &LocationError{Reason: ReasonTimeout, Err: err}
	default:
		return &LocationError{Reason: ReasonPositionUnavailable, Err: err}
	}
}
