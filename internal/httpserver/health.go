package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/d4t4cr0c/catalog-api/internal/config"
	"github.com/d4t4cr0c/catalog-api/internal/logging"
	"github.com/d4t4cr0c/catalog-api/internal/middleware/secure"
	"github.com/d4t4cr0c/catalog-api/internal/search"
	"github.com/d4t4cr0c/catalog-api/internal/service"
	"github.com/d4t4cr0c/catalog-api/internal/transport"
)

const version = "1.0.0"

type HealthHandler struct {
	Cfg   *config.Config
	Svc   *service.CatalogService
	Index *search.Index
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()

	services := map[string]string{
		"database": "ok",
		"events":   "disabled",
		"search":   "disabled",
	}
	healthy := true

	if err := h.Svc.Health(ctx); err != nil {
		logging.FromContext(ctx).Error("database probe failed", "error", err)
		services["database"] = "error"
		healthy = false
	}
	if h.Svc.Producer != nil {
		services["events"] = "configured"
	}
	if h.Index != nil {
		services["search"] = "ok"
		if err := h.Index.Ping(ctx); err != nil {
			logging.FromContext(ctx).Warn("search probe failed", "error", err)
			services["search"] = "error"
		}
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	return c.JSON(code, transport.HealthResponse{
		Status:      status,
		Services:    services,
		Environment: h.Cfg.Environment,
		Version:     version,
	})
}

func (h *HealthHandler) Token(c echo.Context) error {
	now := time.Now()
	return c.JSON(http.StatusOK, transport.TokenResponse{
		Token:     secure.FrontendToken(h.Cfg.FrontendTokenSecret, now),
		ExpiresIn: int64(secure.TokenTTL(now).Seconds()),
		TokenType: "Frontend",
	})
}
