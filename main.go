package main

import (
	"log"

	"campus-finance/app/config"
	"campus-finance/app/database"
	"campus-finance/app/routes/auth"
	"campus-finance/app/routes/fees"
	"campus-finance/app/routes/invoices"
	"campus-finance/app/routes/payments"
	"campus-finance/app/routes/permissions"
	"campus-finance/app/routes/students"
	"campus-finance/app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// customErrorHandler renders every error as the standard JSON envelope
func customErrorHandler(c *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a *fiber.Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}

func main() {
	// Initialize database
	config.InitDB()
	defer config.GetDB().Close()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Start background scheduler
	services.StartScheduler(config.GetDB())

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Setup auth routes
	auth.SetupAuthRoutes(app)

	// Setup students routes
	students.SetupStudentsRoutes(app)

	// Setup fees routes
	fees.SetupFeesRoutes(app)

	// Setup invoices routes
	invoices.SetupInvoicesRoutes(app)

	// Setup payments routes
	payments.SetupPaymentsRoutes(app)

	// Setup permissions routes
	permissions.SetupPermissionsRoutes(app)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})

	// Start server
	log.Println("Server starting on :8080")
	log.Fatal(app.Listen(":8080"))
}
