package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/d4t4cr0c/catalog-api/internal/middleware/auth"
	"github.com/d4t4cr0c/catalog-api/internal/transport"
)

type Deps struct {
	Products *ProductHandler
	Auth     *AuthHandler
	Health   *HealthHandler
	AuthMW   *authmw.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	api := e.Group("/api")

	api.GET("/health", d.Health.Health)
	api.GET("/health/token", d.Health.Token)

	api.GET("/auth/config", d.Auth.GetConfig)
	api.GET("/auth/user", d.Auth.GetUser, d.AuthMW.RequireAuth)
	api.POST("/auth/logout", d.Auth.Logout, d.AuthMW.OptionalAuth)

	products := api.Group("/products")
	products.GET("", d.Products.GetProducts, d.AuthMW.OptionalAuth)
	products.GET("/:id", d.Products.GetProduct, d.AuthMW.OptionalAuth)

	admin := products.Group("", d.AuthMW.RequireAuth, d.AuthMW.RequireAdmin)
	admin.POST("", d.Products.CreateProduct)
	admin.PUT("/:id", d.Products.UpdateProduct)
	admin.DELETE("/:id", d.Products.DeleteProduct)
}

// ErrorHandler converts every uncaught error into the response envelope:
// echo.HTTPError keeps its status and message, anything else becomes a 500
// with a generic body. Upstream error text goes to logs only.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	resp := transport.ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, resp)
	}
	if werr != nil {
		c.Logger().Error(werr)
	}
}
