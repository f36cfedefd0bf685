package router

import "github.com/labstack/echo/v4"

// registerServiceRoutes wires service and category management. Everything
// here requires an admin-scope credential.
func registerServiceRoutes(e *echo.Echo, d Deps, adminGate []echo.MiddlewareFunc) {
	g := e.Group("/api/services", adminGate...)

	g.GET("", d.Services.List)
	g.POST("/create", d.Services.Create)
	g.PUT("/seredit/:id", d.Services.Update)
	g.DELETE("/serdelete/:id", d.Services.Delete)

	g.GET("/categories", d.Categories.List)
	g.POST("/addcategory", d.Categories.Create)
	g.PUT("/catedit/:id", d.Categories.Update)
	g.DELETE("/catdelete/:id", d.Categories.Delete)

	// Parameterized routes last so they don't shadow the literal paths.
	g.GET("/service/:serviceId", d.Services.GetWithCategories)
	g.GET("/:id", d.Services.GetByID)
}
