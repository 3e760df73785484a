package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/d4t4cr0c/catalog-api/internal/logging"
	"github.com/d4t4cr0c/catalog-api/internal/models"
)

const (
	CtxUser  = "user"
	CtxToken = "access_token"
)

// Verifier resolves a bearer token to a user, normally against the external
// identity provider.
type Verifier interface {
	GetUser(ctx context.Context, token string) (*models.User, error)
}

type Middleware struct {
	Verifier Verifier
}

// RequireAuth extracts and verifies the bearer token and attaches the
// resolved user and the raw token to the request context. Verification
// failure is terminal for the request, there are no retries.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}
		user, err := m.verify(c, token)
		if err != nil {
			return err
		}
		c.Set(CtxUser, user)
		c.Set(CtxToken, token)
		return next(c)
	}
}

// RequireAdmin must run after RequireAuth: 401 without a user in context,
// 403 for any role other than admin.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get(CtxUser).(*models.User)
		if !ok || user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		if !user.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	}
}

// OptionalAuth makes the same verification attempt but never fails the
// request: on any error it proceeds unauthenticated so read endpoints can
// render role-aware responses without forcing login.
func (m *Middleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return next(c)
		}
		user, err := m.verify(c, token)
		if err != nil {
			return next(c)
		}
		c.Set(CtxUser, user)
		c.Set(CtxToken, token)
		return next(c)
	}
}

func (m *Middleware) verify(c echo.Context, token string) (*models.User, error) {
	l := logging.FromContext(c.Request().Context())

	// Cheap local pre-check: a bearer token from the provider is a JWT, so a
	// malformed or already expired one can be rejected without a network call.
	if err := precheck(token); err != nil {
		l.Warn("token precheck failed", "error", err)
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	user, err := m.Verifier.GetUser(c.Request().Context(), token)
	if err != nil {
		l.Warn("token verification failed", "error", err)
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}
	return user, nil
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "malformed authorization header")
	}
	return token, nil
}

func precheck(raw string) error {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return err
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return err
	}
	if exp != nil && exp.Before(time.Now()) {
		return jwt.ErrTokenExpired
	}
	return nil
}

// UserFromContext returns the authenticated user, or nil for anonymous
// requests that passed through OptionalAuth.
func UserFromContext(c echo.Context) *models.User {
	if u, ok := c.Get(CtxUser).(*models.User); ok {
		return u
	}
	return nil
}

// TokenFromContext returns the raw bearer token attached by RequireAuth or
// OptionalAuth, or "".
func TokenFromContext(c echo.Context) string {
	if t, ok := c.Get(CtxToken).(string); ok {
		return t
	}
	return ""
}
