// Package webserver hosts the admin HTTP API on Echo. Handlers register
// themselves through the ApiGET/ApiPOST helpers; everything under /api is
// behind JWT auth, the public group is not.
package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/craftista/storefront/internal/app"
)

const AppContextKey = "appctx"

var (
	server *echo.Echo
	appctx app.AppContext
	api    *echo.Group
	pub    *echo.Group
)

// Init builds the Echo instance and route groups. Call before any
// ApiGET/PubPOST registration.
func Init(ctx app.AppContext) {
	appctx = ctx
	server = echo.New()
	server.HideBanner = true
	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appctx)
			return next(c)
		}
	})

	pub = server.Group("/public")
	api = server.Group("/api")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(ctx.Config().Web.JwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
		},
	}))
}

// Start serves until the listener fails or the server is shut down.
func Start() error {
	cfg := appctx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("starting admin api", zap.String("addr", addr))
	return server.Start(addr)
}

// Server exposes the echo instance for shutdown and tests.
func Server() *echo.Echo {
	return server
}

// IssueToken signs a JWT for an authenticated operator.
func IssueToken(username, level, secret string) (string, error) {
	claims := jwt.MapClaims{
		"usr": username,
		"lvl": level,
		"exp": jwt.NewNumericDate(time.Now().Add(24 * time.Hour)).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ApiGET(path string, h echo.HandlerFunc) {
	api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	api.DELETE(path, h)
}

func PubPOST(path string, h echo.HandlerFunc) {
	pub.POST(path, h)
}
