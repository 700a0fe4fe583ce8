package fees

import (
	"database/sql"
	"log"

	"campus-finance/app/database"
	"campus-finance/app/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeeTypesAPI returns the fee type catalog.
func GetFeeTypesAPI(c *fiber.Ctx, db *sql.DB) error {
	feeTypes, err := database.ListFeeTypes(db)
	if err != nil {
		log.Printf("Failed to list fee types: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fee types")
	}
	if feeTypes == nil {
		feeTypes = []*models.FeeType{}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    feeTypes,
	})
}

// GetFeeTypeAPI returns one fee type by id.
func GetFeeTypeAPI(c *fiber.Ctx, db *sql.DB) error {
	feeType, err := database.GetFeeTypeByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Fee type not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fee type")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    feeType,
	})
}

// CreateFeeTypeAPI creates a new fee type.
func CreateFeeTypeAPI(c *fiber.Ctx, db *sql.DB) error {
	var feeType models.FeeType
	if err := c.BodyParser(&feeType); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if feeType.Code == "" || feeType.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Code and name are required")
	}
	feeType.IsActive = true

	if err := database.CreateFeeType(db, &feeType); err != nil {
		log.Printf("Failed to create fee type: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create fee type")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    feeType,
		"message": "Fee type created successfully",
	})
}
