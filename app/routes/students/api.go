package students

import (
	"database/sql"
	"log"

	"campus-finance/app/database"
	"campus-finance/app/models"
	"campus-finance/app/permissions"

	"github.com/gofiber/fiber/v2"
)

// GetStudentAPI returns one student record.
func GetStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	student, err := database.GetStudentByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		log.Printf("Failed to fetch student: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    student,
	})
}

// GetFinancialStatusesAPI returns the student's per-semester milestone rows.
func GetFinancialStatusesAPI(c *fiber.Ctx, db *sql.DB) error {
	statuses, err := database.ListFinancialStatuses(db, c.Params("id"))
	if err != nil {
		log.Printf("Failed to list financial statuses: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch financial status")
	}
	if statuses == nil {
		statuses = []*models.StudentSemesterFinancialStatus{}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    statuses,
	})
}

// CheckActionAPI answers "may this student do this right now" by loading
// the student's hold and grade flag plus the semester milestone, then
// running the permission rules on them.
func CheckActionAPI(c *fiber.Ctx, db *sql.DB) error {
	studentID := c.Params("id")
	actionCode := c.Query("action_code")
	semesterID := c.Query("semester_id")
	if actionCode == "" {
		return fiber.NewError(fiber.StatusBadRequest, "action_code is required")
	}
	if semesterID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "semester_id is required")
	}

	student, err := database.GetStudentByID(db, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		log.Printf("Failed to fetch student %s: %v", studentID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	// No status row means the student was never invoiced this semester;
	// the zero milestone keeps every gated action locked.
	milestone := models.MilestonePM00
	status, err := database.GetFinancialStatus(db, studentID, semesterID)
	if err != nil {
		log.Printf("Failed to fetch financial status for %s: %v", studentID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch financial status")
	}
	if status != nil {
		milestone = status.MilestoneCode
	}

	decision := permissions.Evaluate(actionCode, milestone, student.Hold(), student.GradesVisibility)
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"student_id":  studentID,
			"semester_id": semesterID,
			"action_code": actionCode,
			"milestone":   milestone,
			"decision":    decision,
		},
	})
}

type SetHoldRequest struct {
	Hold models.FinancialHold `json:"hold"`
}

// SetHoldAPI places a financial hold on a student.
func SetHoldAPI(c *fiber.Ctx, db *sql.DB) error {
	var req SetHoldRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if !req.Hold.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "hold must be one of FHNP, FHPP, FHOD, FHCH, FHEX")
	}

	if err := database.SetFinancialHold(db, c.Params("id"), req.Hold); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		log.Printf("Failed to set hold: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to set hold")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Hold placed",
	})
}

// ClearHoldAPI removes a student's financial hold.
func ClearHoldAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := database.ClearFinancialHold(db, c.Params("id")); err != nil {
		log.Printf("Failed to clear hold: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to clear hold")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Hold cleared",
	})
}
