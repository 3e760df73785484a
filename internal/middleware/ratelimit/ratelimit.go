// Package ratelimit implements a fixed-window request limiter keyed by
// client identifier. State lives only in process memory: it resets on
// restart and is not shared across instances, so under horizontal scaling
// the limit is per-instance only.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"

	"github.com/d4t4cr0c/catalog-api/internal/logging"
)

const fallbackID = "unknown"

type window struct {
	count   int
	resetAt time.Time
}

type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	max     int
	period  time.Duration
}

func New(max int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		max:     max,
		period:  period,
	}
}

// Allow records one request for id and reports whether it fits the current
// window. A request at or past the window's reset time starts a fresh
// window with count 1.
func (l *Limiter) Allow(id string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[id]
	if !ok || !now.Before(w.resetAt) {
		l.windows[id] = &window{count: 1, resetAt: now.Add(l.period)}
		return true
	}
	if w.count >= l.max {
		// Rejected requests do not grow the recorded count.
		return false
	}
	w.count++
	return true
}

// Prune drops windows whose reset time has passed. Called from the cron
// schedule so the map does not grow with one entry per client forever.
func (l *Limiter) Prune(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, id)
		}
	}
}

// StartPruner schedules a periodic Prune. The returned cron must be stopped
// on shutdown.
func (l *Limiter) StartPruner() *cron.Cron {
	c := cron.New()
	c.AddFunc("@every 1m", func() { l.Prune(time.Now()) })
	c.Start()
	return c
}

// Middleware identifies the client by real IP, falling back to the Origin
// header, falling back to a constant.
func Middleware(l *Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.RealIP()
			if id == "" {
				id = c.Request().Header.Get(echo.HeaderOrigin)
			}
			if id == "" {
				id = fallbackID
			}
			if !l.Allow(id, time.Now()) {
				logging.FromContext(c.Request().Context()).Warn("rate limit exceeded", "client", id)
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
