package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireSelf only lets a request through when the authenticated user is the
// one named by the path parameter param. It must run after Auth.
func RequireSelf(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok || claims.ID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if claims.ID != c.Param(param) {
				return echo.NewHTTPError(http.StatusUnauthorized, "token does not grant access to this user")
			}
			return next(c)
		}
	}
}
