package database

import (
	"fmt"
	"time"

	"campus-finance/app/models"
)

const paymentColumns = `id, invoice_id, student_id, amount, method, status, reference,
	verified_by, verified_at, created_at, updated_at`

func scanPayment(row interface {
	Scan(dest ...interface{}) error
}) (*models.Payment, error) {
	p := &models.Payment{}
	var method, status string
	err := row.Scan(
		&p.ID, &p.InvoiceID, &p.StudentID, &p.Amount, &method, &status, &p.Reference,
		&p.VerifiedBy, &p.VerifiedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Method = models.PaymentMethod(method)
	p.Status = models.PaymentStatus(status)
	return p, nil
}

// InsertPayment persists a payment record.
func InsertPayment(q Queryer, p *models.Payment) error {
	query := `INSERT INTO payments (invoice_id, student_id, amount, method, status, reference, verified_by, verified_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id, created_at, updated_at`
	err := q.QueryRow(query,
		p.InvoiceID, p.StudentID, p.Amount, string(p.Method), string(p.Status),
		p.Reference, p.VerifiedBy, p.VerifiedAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %v", err)
	}
	return nil
}

// GetPaymentByID returns one payment.
func GetPaymentByID(q Queryer, id string) (*models.Payment, error) {
	return scanPayment(q.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
}

// MarkPaymentStatus records the outcome of a verification decision.
func MarkPaymentStatus(q Queryer, id string, status models.PaymentStatus, verifiedBy string, verifiedAt time.Time) error {
	_, err := q.Exec(
		`UPDATE payments SET status = $1, verified_by = $2, verified_at = $3, updated_at = NOW() WHERE id = $4`,
		string(status), verifiedBy, verifiedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %v", err)
	}
	return nil
}

// ListPayments returns payments filtered by invoice and/or student, newest
// first.
func ListPayments(q Queryer, invoiceID, studentID string) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE 1=1`
	var args []interface{}
	if invoiceID != "" {
		args = append(args, invoiceID)
		query += fmt.Sprintf(" AND invoice_id = $%d", len(args))
	}
	if studentID != "" {
		args = append(args, studentID)
		query += fmt.Sprintf(" AND student_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
