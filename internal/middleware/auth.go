// Package middleware provides shared request processing: cookie-based auth
// gates, role enforcement, rate limiting and request logging.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tharsan/event-booking-api/internal/model"
	"github.com/tharsan/event-booking-api/internal/utils"
)

// Cookie names carrying credentials. User and admin sessions use distinct
// cookies so both can coexist on one client.
const (
	UserCookie  = "auth_token"
	AdminCookie = "admin_auth_token"
)

const identityKey = "identity"

// CookieAuth returns a middleware that reads a signed token from the named
// cookie, verifies it and stores the decoded identity in the request context.
// Missing or unverifiable tokens short-circuit with 401; the handler behind
// the gate is never invoked. The token itself is never mutated.
func CookieAuth(secret, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			id, err := utils.VerifyToken(secret, cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// RequireAdmin enforces that the identity attached by CookieAuth carries the
// admin role. Anything else is rejected with 403.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok || id.Role != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the verified identity attached to the request by
// CookieAuth, or false when the request did not pass a gate.
func IdentityFrom(c echo.Context) (utils.Identity, bool) {
	id, ok := c.Get(identityKey).(utils.Identity)
	return id, ok
}
