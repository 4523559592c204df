package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoValSucceedsFirstTry(t *testing.T) {
	calls := 0
	v, err := DoVal(context.Background(), Policy{}, "op", func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestDoValRetriesTransient(t *testing.T) {
	calls := 0
	v, err := DoVal(context.Background(), Policy{Attempts: 3, BaseDelay: time.Millisecond}, "op",
		func(ctx context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", NewTransientError(eris.New("upstream busy"), 503)
			}
			return "ok", nil
		})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, calls)
}

func TestDoValStopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := DoVal(context.Background(), Policy{Attempts: 3, BaseDelay: time.Millisecond}, "op",
		func(ctx context.Context) (int, error) {
			calls++
			return 0, eris.New("bad request")
		})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoValExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := DoVal(context.Background(), Policy{Attempts: 2, BaseDelay: time.Millisecond}, "op",
		func(ctx context.Context) (int, error) {
			calls++
			return 0, NewTransientError(eris.New("still down"), 502)
		})
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoValHonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := DoVal(ctx, Policy{Attempts: 5, BaseDelay: time.Minute}, "op",
		func(ctx context.Context) (int, error) {
			calls++
			cancel()
			return 0, NewTransientError(eris.New("down"), 503)
		})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(eris.New("plain")))
	assert.True(t, IsTransient(NewTransientError(eris.New("x"), 503)))
	// Wrapping preserves classification.
	assert.True(t, IsTransient(eris.Wrap(NewTransientError(eris.New("x"), 429), "fetch")))
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), "code %d", code)
	}
	for _, code := range []int{200, 301, 400, 401, 403, 404} {
		assert.False(t, IsTransientHTTPStatus(code), "code %d", code)
	}
}
