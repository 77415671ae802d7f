// internal/geo/geo_test.go
package geo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacra/agritrace-backend/internal/errs"
)

func TestParseCoordinates(t *testing.T) {
	pos, err := ParseCoordinates("6.7547, -11.3637")
	require.NoError(t, err)
	assert.Equal(t, "6.754700,-11.363700", pos.String())

	pos, err = ParseCoordinates("6.3106,-10.8047,12.345")
	require.NoError(t, err)
	require.NotNil(t, pos.Altitude)
	assert.Equal(t, "6.310600,-10.804700,12.35", pos.String())
}

func TestParseCoordinates_Invalid(t *testing.T) {
	for _, in := range []string{"", "6.75", "a,b", "91,0", "0,181", "1,2,3,4"} {
		_, err := ParseCoordinates(in)
		assert.True(t, errs.IsKind(err, errs.KindValidation), in)
	}
}

func TestAccuracyClass(t *testing.T) {
	assert.Equal(t, "", Position{}.AccuracyClass())
	assert.Equal(t, "high", Position{AccuracyM: 5, HasAccuracy: true}.AccuracyClass())
	assert.Equal(t, "medium", Position{AccuracyM: 30, HasAccuracy: true}.AccuracyClass())
	assert.Equal(t, "low", Position{AccuracyM: 120, HasAccuracy: true}.AccuracyClass())
}

func TestPlotCenter(t *testing.T) {
	pos, err := PlotCenter(`[{"lat":7.5,"lng":-9.4},{"lat":7.6,"lng":-9.5}]`)
	require.NoError(t, err)
	assert.Equal(t, 7.5, pos.Latitude)
	assert.Equal(t, -9.4, pos.Longitude)

	_, err = PlotCenter("")
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
	_, err = PlotCenter("[]")
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
	_, err = PlotCenter("{oops")
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestLocator_ErrorReasons(t *testing.T) {
	tests := []struct {
		name   string
		source Source
		reason Reason
	}{
		{
			name: "permission denied",
			source: SourceFunc(func(ctx context.Context, key string) (Position, error) {
				return Position{}, ErrPermissionDenied
			}),
			reason: ReasonPermissionDenied,
		},
		{
			name: "unavailable",
			source: SourceFunc(func(ctx context.Context, key string) (Position, error) {
				return Position{}, errors.New("no fix")
			}),
			reason: ReasonPositionUnavailable,
		},
		{
			name: "timeout",
			source: SourceFunc(func(ctx context.Context, key string) (Position, error) {
				<-ctx.Done()
				return Position{}, ctx.Err()
			}),
			reason: ReasonTimeout,
		},
	}

	messages := map[string]bool{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLocator(tt.source, 20*time.Millisecond, time.Minute)
			_, err := l.Locate(context.Background(), "agent-1")

			var le *LocationError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.reason, le.Reason)
			messages[le.Error()] = true
		})
	}
	assert.Len(t, messages, 3, "each reason has its own message")
}

func TestLocator_CacheWithinMaxAge(t *testing.T) {
	var calls int32
	source := SourceFunc(func(ctx context.Context, key string) (Position, error) {
		atomic.AddInt32(&calls, 1)
		return Position{Latitude: 6.3, Longitude: -10.8}, nil
	})

	now := time.Date(2024, 12, 22, 9, 0, 0, 0, time.UTC)
	l := NewLocator(source, time.Second, time.Minute)
	l.now = func() time.Time { return now }

	_, err := l.Locate(context.Background(), "agent-1")
	require.NoError(t, err)
	now = now.Add(30 * time.Second)
	_, err = l.Locate(context.Background(), "agent-1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	now = now.Add(31 * time.Second)
	_, err = l.Locate(context.Background(), "agent-1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLocator_FailuresAreNotCached(t *testing.T) {
	var calls int32
	source := SourceFunc(func(ctx context.Context, key string) (Position, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return Position{}, errors.New("no fix")
		}
		return Position{Latitude: 1, Longitude: 2}, nil
	})
	l := NewLocator(source, time.Second, time.Minute)

	_, err := l.Locate(context.Background(), "agent-1")
	require.Error(t, err)
	pos, err := l.Locate(context.Background(), "agent-1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, pos.Latitude)
}

func TestLocator_CoalescesConcurrentLookups(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	source := SourceFunc(func(ctx context.Context, key string) (Position, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return Position{Latitude: 1, Longitude: 2}, nil
	})
	l := NewLocator(source, time.Second, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Locate(context.Background(), "plot-7")
			assert.NoError(t, err)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLocator_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	source := SourceFunc(func(ctx context.Context, key string) (Position, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return Position{Latitude: 1, Longitude: 2}, nil
		case <-ctx.Done():
			return Position{}, ctx.Err()
		}
	})
	l := NewLocator(source, time.Second, time.Minute)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := l.Locate(firstCtx, "plot-7")
		firstErr <- err
	}()
	<-started

	type result struct {
		pos Position
		err error
	}
	second := make(chan result, 1)
	go func() {
		pos, err := l.Locate(context.Background(), "plot-7")
		second <- result{pos, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	var le *LocationError
	require.ErrorAs(t, <-firstErr, &le)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, 1.0, got.pos.Latitude)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
