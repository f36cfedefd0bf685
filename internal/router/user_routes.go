package router

import "github.com/labstack/echo/v4"

// registerUserRoutes wires registration, login, session, password reset and
// the admin-gated user management endpoints. The credential endpoints sit
// behind the rate limiter.
func registerUserRoutes(e *echo.Echo, d Deps, userGate echo.MiddlewareFunc, adminGate []echo.MiddlewareFunc) {
	g := e.Group("/api/users")

	g.POST("/register", d.Auth.Register)
	g.POST("/login", d.Auth.Login, d.RateLimit)
	g.POST("/admin", d.Auth.AdminLogin, d.RateLimit)
	g.POST("/logout", d.Auth.Logout)
	g.POST("/google-login", d.Auth.GoogleLogin, d.RateLimit)

	g.GET("/profile", d.Auth.Profile, userGate)

	g.POST("/forgot-password", d.Reset.ForgotPassword, d.RateLimit)
	g.POST("/verify-otp", d.Reset.VerifyOTP)
	g.POST("/reset-password", d.Reset.ResetPassword)

	g.GET("/get", d.UserAdmin.List, adminGate...)
	g.DELETE("/get/:id", d.UserAdmin.Delete, adminGate...)
}
