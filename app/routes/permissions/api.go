package permissions

import (
	"campus-finance/app/models"
	"campus-finance/app/permissions"

	"github.com/gofiber/fiber/v2"
)

type EvaluateRequest struct {
	ActionCode       string                  `json:"action_code"`
	Milestone        models.Milestone        `json:"milestone"`
	Hold             models.FinancialHold    `json:"hold"`
	GradesVisibility models.GradesVisibility `json:"grades_visibility"`
}

// EvaluateAPI runs the permission rules on caller-supplied inputs. Useful
// for admin tooling that wants to preview a decision without a student row.
func EvaluateAPI(c *fiber.Ctx) error {
	var req EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.ActionCode == "" {
		return fiber.NewError(fiber.StatusBadRequest, "action_code is required")
	}

	decision := permissions.Evaluate(req.ActionCode, req.Milestone, req.Hold, req.GradesVisibility)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    decision,
	})
}
