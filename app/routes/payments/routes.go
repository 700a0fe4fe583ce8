package payments

import (
	"campus-finance/app/config"
	"campus-finance/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentsRoutes sets up the payment ledger routes.
func SetupPaymentsRoutes(app *fiber.App) {
	paymentsAPI := app.Group("/api/payments")
	paymentsAPI.Use(auth.AuthMiddleware)

	paymentsAPI.Post("/", func(c *fiber.Ctx) error {
		return AddPaymentAPI(c, config.GetDB())
	})
	paymentsAPI.Get("/", func(c *fiber.Ctx) error {
		return GetPaymentsAPI(c, config.GetDB())
	})
	paymentsAPI.Post("/:id/verify", func(c *fiber.Ctx) error {
		return VerifyPaymentAPI(c, config.GetDB())
	})
	paymentsAPI.Post("/:id/reject", func(c *fiber.Ctx) error {
		return RejectPaymentAPI(c, config.GetDB())
	})
}
