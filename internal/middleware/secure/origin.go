// Package secure gates requests on their declared origin before anything
// else runs, and issues the advisory frontend self-identification token.
package secure

import (
	"net/http"
	"net/url"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/d4t4cr0c/catalog-api/internal/config"
	"github.com/d4t4cr0c/catalog-api/internal/logging"
)

var localOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:8080",
}

// AllowList folds the fixed local-dev origins together with the
// environment-supplied production origins.
func AllowList(cfg *config.Config) []string {
	origins := slices.Clone(localOrigins)
	for _, o := range []string{cfg.SiteURL, cfg.CustomDomain, cfg.DeployURL} {
		if o != "" && !slices.Contains(origins, o) {
			origins = append(origins, o)
		}
	}
	return origins
}

// Origin rejects requests whose Origin header is not on the allow-list. A
// request without an Origin header (same-origin navigation) passes when its
// Referer host matches the request Host, or when it carries no Referer at
// all. Preflight requests short-circuit with 200 after header assignment.
func Origin(allowed []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			origin := req.Header.Get(echo.HeaderOrigin)

			switch {
			case origin != "" && slices.Contains(allowed, origin):
				res.Header().Set(echo.HeaderAccessControlAllowOrigin, origin)
				// Browsers reject a wildcard origin combined with
				// credentials, so this header rides only with a concrete
				// echoed origin.
				res.Header().Set(echo.HeaderAccessControlAllowCredentials, "true")
			case origin == "" && sameOriginReferer(req):
				res.Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
			default:
				if req.Method == http.MethodOptions {
					break
				}
				logging.FromContext(req.Context()).Warn("origin rejected",
					"origin", origin, "referer", req.Referer(), "host", req.Host)
				return echo.NewHTTPError(http.StatusForbidden, "origin not allowed")
			}

			res.Header().Set(echo.HeaderAccessControlAllowMethods, "GET, POST, PUT, DELETE, OPTIONS")
			res.Header().Set(echo.HeaderAccessControlAllowHeaders, "Authorization, Content-Type, X-Frontend-Token")

			if req.Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}
			return next(c)
		}
	}
}

func sameOriginReferer(req *http.Request) bool {
	ref := req.Referer()
	if ref == "" {
		return true
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Host == req.Host
}
