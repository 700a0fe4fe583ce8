package invoices

import (
	"campus-finance/app/config"
	"campus-finance/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupInvoicesRoutes sets up the invoice builder routes.
func SetupInvoicesRoutes(app *fiber.App) {
	invoicesAPI := app.Group("/api/invoices")
	invoicesAPI.Use(auth.AuthMiddleware)

	invoicesAPI.Post("/", func(c *fiber.Ctx) error {
		return CreateInvoiceAPI(c, config.GetDB())
	})
	invoicesAPI.Get("/", func(c *fiber.Ctx) error {
		return GetInvoicesAPI(c, config.GetDB())
	})
	invoicesAPI.Get("/stats", func(c *fiber.Ctx) error {
		return GetInvoiceStatsAPI(c, config.GetDB())
	})
	invoicesAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetInvoiceAPI(c, config.GetDB())
	})
}
