package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/daniilsolovey/newsfeed/internal/errors"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", rps: 1, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", rps: 1, burst: 2, calls: 5, wantPass: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst, time.Minute)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow("test") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := New(0.001, 1, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestKeyedRateLimiter_EvictsIdleKeys(t *testing.T) {
	rl := New(1, 1, time.Hour)
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.Allow("old")

	now = now.Add(2 * time.Hour)
	rl.Allow("fresh")
	rl.evictIdle()

	assert.Equal(t, 1, rl.Len())
}

func TestMiddleware(t *testing.T) {
	rl := PerMinute(2)
	defer rl.Stop()

	e := echo.New()
	h := Middleware(rl, "too many login attempts")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	call := func() error {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		return h(e.NewContext(req, httptest.NewRecorder()))
	}

	assert.NoError(t, call())
	assert.NoError(t, call())
	assert.ErrorIs(t, call(), errors.ErrRateLimited)
}
