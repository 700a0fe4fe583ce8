package fees

import (
	"database/sql"
	"log"

	"campus-finance/app/database"
	"campus-finance/app/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeeStructuresAPI returns all active fee structures with their payment
// portions.
func GetFeeStructuresAPI(c *fiber.Ctx, db *sql.DB) error {
	structures, err := database.ListFeeStructures(db)
	if err != nil {
		log.Printf("Failed to list fee structures: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fee structures")
	}
	if structures == nil {
		structures = []*models.FeeStructure{}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    structures,
	})
}

// GetFeeStructureAPI returns one fee structure by id.
func GetFeeStructureAPI(c *fiber.Ctx, db *sql.DB) error {
	fs, err := database.GetFeeStructureByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Fee structure not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fee structure")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    fs,
	})
}

// CreateFeeStructureAPI creates a fee structure together with its ordered
// payment portions.
func CreateFeeStructureAPI(c *fiber.Ctx, db *sql.DB) error {
	var fs models.FeeStructure
	if err := c.BodyParser(&fs); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if fs.FeeTypeID == "" || fs.Name == "" || fs.Amount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Fee type, name and a positive amount are required")
	}
	if fs.Currency == "" {
		fs.Currency = "USD"
	}
	fs.IsActive = true

	// The portions must cover the whole amount, in order.
	if err := models.ValidatePortions(fs.Portions); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	// Reject unknown fee types up front.
	if _, err := database.GetFeeTypeByID(db, fs.FeeTypeID); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown fee type")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to verify fee type")
	}

	if err := database.CreateFeeStructure(db, &fs); err != nil {
		log.Printf("Failed to create fee structure: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create fee structure")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fs,
		"message": "Fee structure created successfully",
	})
}

// DeactivateFeeStructureAPI retires a fee structure from the catalog.
func DeactivateFeeStructureAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := database.DeactivateFeeStructure(db, c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Fee structure not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to deactivate fee structure")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Fee structure deactivated",
	})
}
