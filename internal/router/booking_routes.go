package router

import "github.com/labstack/echo/v4"

// registerBookingRoutes wires booking management. Any authenticated user may
// create a booking; reading, editing and deleting are admin operations.
func registerBookingRoutes(e *echo.Echo, d Deps, userGate echo.MiddlewareFunc, adminGate []echo.MiddlewareFunc) {
	g := e.Group("/api/bookings")

	g.POST("/create", d.Bookings.Create, userGate)

	g.GET("/get", d.Bookings.List, adminGate...)
	g.GET("/:id", d.Bookings.GetByID, adminGate...)
	g.PUT("/editbooking/:id", d.Bookings.Update, adminGate...)
	g.DELETE("/delete/:id", d.Bookings.Delete, adminGate...)
}
