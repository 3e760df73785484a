package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestAllowWithinWindow(t *testing.T) {
	l := New(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow("client-a", now), "request %d", i+1)
	}
	require.False(t, l.Allow("client-a", now), "4th request must be rejected")
}

func TestWindowResets(t *testing.T) {
	l := New(1, time.Minute)
	now := time.Now()

	require.True(t, l.Allow("client-a", now))
	require.False(t, l.Allow("client-a", now))

	later := now.Add(time.Minute + time.Second)
	require.True(t, l.Allow("client-a", later), "request after window elapses starts count at 1")
	require.False(t, l.Allow("client-a", later))
}

func TestWindowResetBoundaryIsInclusive(t *testing.T) {
	l := New(1, time.Minute)
	now := time.Now()

	require.True(t, l.Allow("client-a", now))
	require.False(t, l.Allow("client-a", now))

	// A request landing exactly on the reset instant belongs to the new
	// window, not the expired one.
	require.True(t, l.Allow("client-a", now.Add(time.Minute)))
}

func TestIdentifiersAreIndependent(t *testing.T) {
	l := New(1, time.Minute)
	now := time.Now()

	require.True(t, l.Allow("client-a", now))
	require.True(t, l.Allow("client-b", now))
	require.False(t, l.Allow("client-a", now))
}

func TestPruneDropsExpiredWindows(t *testing.T) {
	l := New(1, time.Minute)
	now := time.Now()

	l.Allow("stale", now)
	l.Allow("fresh", now.Add(30*time.Second))

	// Exactly at the stale window's reset instant it is already prunable.
	l.Prune(now.Add(time.Minute))

	l.mu.Lock()
	defer l.mu.Unlock()
	require.NotContains(t, l.windows, "stale")
	require.Contains(t, l.windows, "fresh")
}

func TestMiddlewareReturns429(t *testing.T) {
	e := echo.New()
	l := New(2, time.Minute)
	h := Middleware(l)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	do := func() error {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		return h(e.NewContext(req, rec))
	}

	require.NoError(t, do())
	require.NoError(t, do())

	err := do()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusTooManyRequests, he.Code)
}
