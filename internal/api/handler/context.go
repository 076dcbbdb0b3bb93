package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/danmigwi24/credential-service/internal/api/middleware"
	"github.com/danmigwi24/credential-service/internal/core/ports"
)

// ctxClaims extracts the claims injected by the Auth middleware. Their
// absence means the route was mounted without Auth, so fail fast with 401.
func ctxClaims(c echo.Context) (ports.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.ID == "" {
		return ports.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
