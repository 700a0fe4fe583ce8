package invoices

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"campus-finance/app/database"
	"campus-finance/app/models"
	"campus-finance/app/routes/auth"
	"campus-finance/app/services"

	"github.com/gofiber/fiber/v2"
)

type CreateInvoiceRequest struct {
	StudentID       string                `json:"student_id"`
	FeeStructureIDs []string              `json:"fee_structure_ids"`
	ManualItems     []services.ManualItem `json:"manual_items"`
	InvoiceDate     string                `json:"invoice_date"` // YYYY-MM-DD, defaults to today
	SemesterID      *string               `json:"semester_id"`
	InvoiceType     string                `json:"invoice_type"`
	Discount        float64               `json:"discount"`
	PaymentMethod   models.PaymentMethod  `json:"payment_method"`
}

// CreateInvoiceAPI runs the invoice builder: fee selections plus manual
// line items become one invoice, or a parent with portion children.
func CreateInvoiceAPI(c *fiber.Ctx, db *sql.DB) error {
	var req CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	invoiceDate := time.Now()
	if req.InvoiceDate != "" {
		parsed, err := time.Parse("2006-01-02", req.InvoiceDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invoice_date must be YYYY-MM-DD")
		}
		invoiceDate = parsed
	}

	var recordedBy *string
	if userID := auth.CurrentUserID(c); userID != "" {
		recordedBy = &userID
	}

	invoice, err := services.CreateInvoice(db, services.CreateInvoiceInput{
		StudentID:       req.StudentID,
		FeeStructureIDs: req.FeeStructureIDs,
		ManualItems:     req.ManualItems,
		InvoiceDate:     invoiceDate,
		SemesterID:      req.SemesterID,
		InvoiceType:     req.InvoiceType,
		Discount:        req.Discount,
		PaymentMethod:   req.PaymentMethod,
		RecordedBy:      recordedBy,
	})
	if err != nil {
		if isValidationError(err) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		log.Printf("Invoice creation failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create invoice")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    invoice,
		"message": "Invoice created successfully",
	})
}

func isValidationError(err error) bool {
	for _, v := range []error{
		services.ErrStudentRequired,
		services.ErrSemesterRequired,
		services.ErrInvalidItem,
		services.ErrNothingToInvoice,
		services.ErrInvalidDiscount,
		services.ErrStructureNotEligible,
		services.ErrMultiplePortioned,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// GetInvoiceAPI returns one invoice with its items and portion children.
func GetInvoiceAPI(c *fiber.Ctx, db *sql.DB) error {
	invoice, err := database.GetInvoiceByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
		}
		log.Printf("Failed to fetch invoice: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch invoice")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    invoice,
	})
}

// GetInvoicesAPI lists invoices filtered by student and optionally by
// semester.
func GetInvoicesAPI(c *fiber.Ctx, db *sql.DB) error {
	studentID := c.Query("student_id")
	if studentID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "student_id is required")
	}
	var semesterID *string
	if s := c.Query("semester_id"); s != "" {
		semesterID = &s
	}

	invoices, err := database.GetInvoicesByStudent(db, studentID, semesterID)
	if err != nil {
		log.Printf("Failed to list invoices: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch invoices")
	}
	if invoices == nil {
		invoices = []*models.Invoice{}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    invoices,
	})
}

// GetInvoiceStatsAPI returns ledger totals for the finance dashboard.
func GetInvoiceStatsAPI(c *fiber.Ctx, db *sql.DB) error {
	stats, err := database.GetInvoiceStats(db)
	if err != nil {
		log.Printf("Failed to compute invoice stats: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to compute invoice statistics")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}
