package payments

import (
	"database/sql"
	"errors"
	"log"
	"strings"

	"campus-finance/app/database"
	"campus-finance/app/models"
	"campus-finance/app/routes/auth"
	"campus-finance/app/services"

	"github.com/gofiber/fiber/v2"
)

type AddPaymentRequest struct {
	InvoiceID string               `json:"invoice_id"`
	Amount    float64              `json:"amount"`
	Method    models.PaymentMethod `json:"method"`
}

// AddPaymentAPI records a payment against an invoice.
func AddPaymentAPI(c *fiber.Ctx, db *sql.DB) error {
	var req AddPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.InvoiceID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "invoice_id is required")
	}
	if req.Method == "" {
		return fiber.NewError(fiber.StatusBadRequest, "method is required")
	}

	var recordedBy *string
	if userID := auth.CurrentUserID(c); userID != "" {
		recordedBy = &userID
	}

	payment, err := services.AddPayment(db, req.InvoiceID, req.Amount, req.Method, recordedBy)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, services.ErrOverpayment),
			errors.Is(err, services.ErrInvoiceSettled),
			errors.Is(err, services.ErrInvoiceInactive):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case strings.Contains(err.Error(), "not found"):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		log.Printf("Failed to record payment: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to record payment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    payment,
		"message": "Payment recorded successfully",
	})
}

// VerifyPaymentAPI confirms a pending payment.
func VerifyPaymentAPI(c *fiber.Ctx, db *sql.DB) error {
	return reviewPayment(c, db, services.VerifyPayment, "Payment verified")
}

// RejectPaymentAPI rejects a pending payment and backs its amount out of
// the invoice.
func RejectPaymentAPI(c *fiber.Ctx, db *sql.DB) error {
	return reviewPayment(c, db, services.RejectPayment, "Payment rejected")
}

func reviewPayment(c *fiber.Ctx, db *sql.DB, review func(*sql.DB, string, string) (*models.Payment, error), message string) error {
	userID := auth.CurrentUserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}

	payment, err := review(db, c.Params("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotOpen):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case strings.Contains(err.Error(), "not found"):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		log.Printf("Payment review failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update payment")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payment,
		"message": message,
	})
}

// GetPaymentsAPI lists payments filtered by invoice and/or student.
func GetPaymentsAPI(c *fiber.Ctx, db *sql.DB) error {
	invoiceID := c.Query("invoice_id")
	studentID := c.Query("student_id")
	if invoiceID == "" && studentID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "invoice_id or student_id is required")
	}

	payments, err := database.ListPayments(db, invoiceID, studentID)
	if err != nil {
		log.Printf("Failed to list payments: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payments")
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    payments,
	})
}
