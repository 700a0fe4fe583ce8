package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campus-finance/app/database"
	"campus-finance/app/models"
)

var (
	ErrInvalidAmount   = errors.New("payment amount must be greater than zero")
	ErrOverpayment     = errors.New("payment amount exceeds the invoice's pending amount")
	ErrInvoiceSettled  = errors.New("invoice has nothing pending")
	ErrPaymentNotOpen  = errors.New("payment has already been verified or rejected")
	ErrInvoiceInactive = errors.New("invoice is cancelled")
)

// AddPayment records money against an invoice and moves the invoice's
// paid/pending amounts. The invoice row is locked for the duration of the
// transaction so two racing payments cannot both read the same pending
// amount. Admin-entered and cash payments auto-verify; everything else
// starts pending and lands via VerifyPayment.
func AddPayment(db *sql.DB, invoiceID string, amount float64, method models.PaymentMethod, recordedBy *string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	invoice, err := database.GetInvoiceForUpdate(tx, invoiceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("invoice %s not found", invoiceID)
		}
		return nil, fmt.Errorf("failed to load invoice: %v", err)
	}
	if invoice.Status == models.InvoiceCancelled {
		return nil, ErrInvoiceInactive
	}
	if invoice.PendingAmount <= 0 {
		return nil, ErrInvoiceSettled
	}
	if amount > invoice.PendingAmount {
		return nil, ErrOverpayment
	}

	payment := &models.Payment{
		InvoiceID: invoiceID,
		StudentID: invoice.StudentID,
		Amount:    amount,
		Method:    method,
		Status:    models.PaymentPending,
		Reference: newPaymentReference(),
	}
	if method.SettlesImmediately() {
		now := time.Now()
		payment.Status = models.PaymentVerified
		payment.VerifiedBy = recordedBy
		payment.VerifiedAt = &now
	}
	if err := database.InsertPayment(tx, payment); err != nil {
		return nil, err
	}

	paid := round2(invoice.PaidAmount + amount)
	pending := round2(invoice.PendingAmount - amount)
	if err := database.UpdateInvoiceAmounts(tx, invoiceID, paid, pending, models.StatusForAmounts(paid, pending)); err != nil {
		return nil, err
	}
	if err := rollUpParent(tx, invoice); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %v", err)
	}

	recomputeAfterLedgerChange(db, invoice)
	return payment, nil
}

// VerifyPayment marks a pending payment as verified. The money already
// moved onto the invoice when the payment was recorded; verification is the
// finance office confirming the funds arrived.
func VerifyPayment(db *sql.DB, paymentID, verifiedBy string) (*models.Payment, error) {
	return settlePaymentReview(db, paymentID, verifiedBy, models.PaymentVerified)
}

// RejectPayment marks a pending payment as rejected and backs its amount
// out of the invoice.
func RejectPayment(db *sql.DB, paymentID, verifiedBy string) (*models.Payment, error) {
	return settlePaymentReview(db, paymentID, verifiedBy, models.PaymentRejected)
}

func settlePaymentReview(db *sql.DB, paymentID, verifiedBy string, outcome models.PaymentStatus) (*models.Payment, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	payment, err := database.GetPaymentByID(tx, paymentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("payment %s not found", paymentID)
		}
		return nil, fmt.Errorf("failed to load payment: %v", err)
	}
	if payment.Status != models.PaymentPending {
		return nil, ErrPaymentNotOpen
	}

	invoice, err := database.GetInvoiceForUpdate(tx, payment.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %v", err)
	}

	now := time.Now()
	if err := database.MarkPaymentStatus(tx, paymentID, outcome, verifiedBy, now); err != nil {
		return nil, err
	}
	payment.Status = outcome
	payment.VerifiedBy = &verifiedBy
	payment.VerifiedAt = &now

	if outcome == models.PaymentRejected {
		paid := round2(invoice.PaidAmount - payment.Amount)
		pending := round2(invoice.PendingAmount + payment.Amount)
		if paid < 0 {
			paid = 0
			pending = invoice.TotalAmount
		}
		if err := database.UpdateInvoiceAmounts(tx, invoice.ID, paid, pending, models.StatusForAmounts(paid, pending)); err != nil {
			return nil, err
		}
		if err := rollUpParent(tx, invoice); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment review: %v", err)
	}

	if outcome == models.PaymentRejected {
		recomputeAfterLedgerChange(db, invoice)
	}
	return payment, nil
}

// rollUpParent refreshes a parent invoice's amounts after one of its
// portion children changed.
func rollUpParent(tx *sql.Tx, child *models.Invoice) error {
	if child.ParentInvoiceID == nil {
		return nil
	}
	parentID := *child.ParentInvoiceID
	if _, err := database.GetInvoiceForUpdate(tx, parentID); err != nil {
		return fmt.Errorf("failed to lock parent invoice: %v", err)
	}
	children, err := database.GetInvoiceChildren(tx, parentID)
	if err != nil {
		return fmt.Errorf("failed to load sibling invoices: %v", err)
	}
	paid, pending := 0.0, 0.0
	for _, c := range children {
		paid += c.PaidAmount
		pending += c.PendingAmount
	}
	paid, pending = round2(paid), round2(pending)
	return database.UpdateInvoiceAmounts(tx, parentID, paid, pending, models.StatusForAmounts(paid, pending))
}

// recomputeAfterLedgerChange triggers the milestone recompute when the
// mutated invoice belongs to a semester and is not an admission fee.
// Failures are logged and queued inside RecomputeFinancialStatus.
func recomputeAfterLedgerChange(db *sql.DB, invoice *models.Invoice) {
	if invoice.SemesterID == nil || invoice.InvoiceType == models.InvoiceTypeAdmission {
		return
	}
	_ = RecomputeFinancialStatus(db, invoice.StudentID, *invoice.SemesterID)
}
