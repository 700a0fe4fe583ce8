package permissions

import (
	"campus-finance/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupPermissionsRoutes sets up the permission evaluation route.
func SetupPermissionsRoutes(app *fiber.App) {
	permissionsAPI := app.Group("/api/permissions")
	permissionsAPI.Use(auth.AuthMiddleware)

	permissionsAPI.Post("/evaluate", EvaluateAPI)
}
