// Package router binds HTTP routes to handlers and applies the auth gates.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/tharsan/event-booking-api/internal/handler"
	"github.com/tharsan/event-booking-api/internal/middleware"
)

// Deps carries everything route registration needs: the handlers, the token
// secret for the gates, and the rate limiter for the credential endpoints.
type Deps struct {
	Auth       *handler.AuthHandler
	Reset      *handler.PasswordResetHandler
	UserAdmin  *handler.UserAdminHandler
	Services   *handler.ServiceHandler
	Categories *handler.CategoryHandler
	Bookings   *handler.BookingHandler

	JWTSecret string
	RateLimit echo.MiddlewareFunc
}

// RegisterRoutes wires the full HTTP surface onto the Echo instance.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	userGate := middleware.CookieAuth(d.JWTSecret, middleware.UserCookie)
	adminGate := []echo.MiddlewareFunc{
		middleware.CookieAuth(d.JWTSecret, middleware.AdminCookie),
		middleware.RequireAdmin(),
	}

	registerUserRoutes(e, d, userGate, adminGate)
	registerServiceRoutes(e, d, adminGate)
	registerBookingRoutes(e, d, userGate, adminGate)
}
