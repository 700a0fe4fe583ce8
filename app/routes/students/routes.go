package students

import (
	"campus-finance/app/config"
	"campus-finance/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupStudentsRoutes sets up the student financial record routes.
func SetupStudentsRoutes(app *fiber.App) {
	studentsAPI := app.Group("/api/students")
	studentsAPI.Use(auth.AuthMiddleware)

	studentsAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetStudentAPI(c, config.GetDB())
	})
	studentsAPI.Get("/:id/financial-status", func(c *fiber.Ctx) error {
		return GetFinancialStatusesAPI(c, config.GetDB())
	})
	studentsAPI.Get("/:id/permissions", func(c *fiber.Ctx) error {
		return CheckActionAPI(c, config.GetDB())
	})
	studentsAPI.Post("/:id/hold", func(c *fiber.Ctx) error {
		return SetHoldAPI(c, config.GetDB())
	})
	studentsAPI.Delete("/:id/hold", func(c *fiber.Ctx) error {
		return ClearHoldAPI(c, config.GetDB())
	})
}
