package fees

import (
	"campus-finance/app/config"
	"campus-finance/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupFeesRoutes sets up the fee catalog routes.
func SetupFeesRoutes(app *fiber.App) {
	feeTypesAPI := app.Group("/api/fee-types")
	feeTypesAPI.Use(auth.AuthMiddleware)

	feeTypesAPI.Get("/", func(c *fiber.Ctx) error {
		return GetFeeTypesAPI(c, config.GetDB())
	})
	feeTypesAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetFeeTypeAPI(c, config.GetDB())
	})
	feeTypesAPI.Post("/", func(c *fiber.Ctx) error {
		return CreateFeeTypeAPI(c, config.GetDB())
	})

	feeStructuresAPI := app.Group("/api/fee-structures")
	feeStructuresAPI.Use(auth.AuthMiddleware)

	feeStructuresAPI.Get("/", func(c *fiber.Ctx) error {
		return GetFeeStructuresAPI(c, config.GetDB())
	})
	feeStructuresAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetFeeStructureAPI(c, config.GetDB())
	})
	feeStructuresAPI.Post("/", func(c *fiber.Ctx) error {
		return CreateFeeStructureAPI(c, config.GetDB())
	})
	feeStructuresAPI.Delete("/:id", func(c *fiber.Ctx) error {
		return DeactivateFeeStructureAPI(c, config.GetDB())
	})
}
