package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/d4t4cr0c/catalog-api/internal/authclient"
	"github.com/d4t4cr0c/catalog-api/internal/config"
	"github.com/d4t4cr0c/catalog-api/internal/logging"
	authmw "github.com/d4t4cr0c/catalog-api/internal/middleware/auth"
	"github.com/d4t4cr0c/catalog-api/internal/transport"
)

type AuthHandler struct {
	Cfg    *config.Config
	Client *authclient.Client
}

// GetConfig exposes what the browser client needs to construct its own
// provider session. The anon key is a publishable credential.
func (h *AuthHandler) GetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, transport.AuthConfigResponse{
		SupabaseURL:     h.Cfg.SupabaseURL,
		SupabaseAnonKey: h.Cfg.SupabaseAnonKey,
		RedirectURL:     h.Cfg.SiteURL,
	})
}

func (h *AuthHandler) GetUser(c echo.Context) error {
	user := authmw.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(http.StatusOK, transport.DataResponse{
		Data:    user,
		Message: "user retrieved successfully",
	})
}

// Logout acknowledges unconditionally. When a bearer token is present the
// provider session is revoked best effort; a failed revocation only logs.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	if token := authmw.TokenFromContext(c); token != "" {
		if err := h.Client.SignOut(ctx, token); err != nil {
			logging.FromContext(ctx).Warn("remote sign-out failed", "error", err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
