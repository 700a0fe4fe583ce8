package database

import (
	"database/sql"
	"fmt"

	"campus-finance/app/models"
)

const invoiceColumns = `id, student_id, semester_id, fee_structure_id, invoice_type, status,
	subtotal, discount, total_amount, paid_amount, pending_amount,
	parent_invoice_id, portion_number, portion_percentage,
	invoice_date, due_date, created_at, updated_at`

func scanInvoice(row interface {
	Scan(dest ...interface{}) error
}) (*models.Invoice, error) {
	inv := &models.Invoice{}
	var status string
	err := row.Scan(
		&inv.ID, &inv.StudentID, &inv.SemesterID, &inv.FeeStructureID, &inv.InvoiceType, &status,
		&inv.Subtotal, &inv.Discount, &inv.TotalAmount, &inv.PaidAmount, &inv.PendingAmount,
		&inv.ParentInvoiceID, &inv.PortionNumber, &inv.PortionPercentage,
		&inv.InvoiceDate, &inv.DueDate, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = models.InvoiceStatus(status)
	return inv, nil
}

// InsertInvoice persists an invoice and fills in its generated fields.
func InsertInvoice(q Queryer, inv *models.Invoice) error {
	query := `INSERT INTO invoices (student_id, semester_id, fee_structure_id, invoice_type, status,
	          subtotal, discount, total_amount, paid_amount, pending_amount,
	          parent_invoice_id, portion_number, portion_percentage, invoice_date, due_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	          RETURNING id, created_at, updated_at`
	err := q.QueryRow(query,
		inv.StudentID, inv.SemesterID, inv.FeeStructureID, inv.InvoiceType, string(inv.Status),
		inv.Subtotal, inv.Discount, inv.TotalAmount, inv.PaidAmount, inv.PendingAmount,
		inv.ParentInvoiceID, inv.PortionNumber, inv.PortionPercentage, inv.InvoiceDate, inv.DueDate,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %v", err)
	}
	return nil
}

// InsertInvoiceItem persists one invoice line item.
func InsertInvoiceItem(q Queryer, item *models.InvoiceItem) error {
	query := `INSERT INTO invoice_items (invoice_id, name, quantity, unit_price, total_amount)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := q.QueryRow(query, item.InvoiceID, item.Name, item.Quantity, item.UnitPrice, item.TotalAmount).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to insert invoice item: %v", err)
	}
	return nil
}

// GetInvoiceByID returns one invoice with its items and child invoices.
func GetInvoiceByID(q Queryer, id string) (*models.Invoice, error) {
	inv, err := scanInvoice(q.QueryRow(`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if inv.Items, err = getInvoiceItems(q, inv.ID); err != nil {
		return nil, err
	}
	if inv.Children, err = GetInvoiceChildren(q, inv.ID); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetInvoiceForUpdate locks the invoice row for the duration of the
// enclosing transaction so concurrent payments cannot race the
// read-modify-write of paid/pending amounts.
func GetInvoiceForUpdate(tx *sql.Tx, id string) (*models.Invoice, error) {
	return scanInvoice(tx.QueryRow(`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id))
}

// GetInvoiceChildren returns the portion invoices under a parent, in
// portion order.
func GetInvoiceChildren(q Queryer, parentID string) ([]*models.Invoice, error) {
	rows, err := q.Query(`SELECT `+invoiceColumns+` FROM invoices WHERE parent_invoice_id = $1 ORDER BY portion_number`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []*models.Invoice
	for rows.Next() {
		child, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, rows.Err()
}

func getInvoiceItems(q Queryer, invoiceID string) ([]*models.InvoiceItem, error) {
	rows, err := q.Query(
		`SELECT id, invoice_id, name, quantity, unit_price, total_amount FROM invoice_items WHERE invoice_id = $1`,
		invoiceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.InvoiceItem
	for rows.Next() {
		item := &models.InvoiceItem{}
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Name, &item.Quantity, &item.UnitPrice, &item.TotalAmount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateInvoiceAmounts rewrites the paid/pending amounts and status after a
// ledger mutation.
func UpdateInvoiceAmounts(q Queryer, id string, paid, pending float64, status models.InvoiceStatus) error {
	_, err := q.Exec(
		`UPDATE invoices SET paid_amount = $1, pending_amount = $2, status = $3, updated_at = NOW() WHERE id = $4`,
		paid, pending, string(status), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice amounts: %v", err)
	}
	return nil
}

// GetInvoicesByStudent returns a student's invoices, optionally narrowed to
// one semester, newest first. Items are not loaded.
func GetInvoicesByStudent(q Queryer, studentID string, semesterID *string) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE student_id = $1`
	args := []interface{}{studentID}
	if semesterID != nil {
		query += ` AND semester_id = $2`
		args = append(args, *semesterID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// GetInvoicesForMilestone loads the invoices that feed the milestone
// aggregation for one (student, semester): everything except admission
// fees. Parent/child bookkeeping is left to the caller.
func GetInvoicesForMilestone(q Queryer, studentID, semesterID string) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
	          FROM invoices
	          WHERE student_id = $1 AND semester_id = $2 AND invoice_type <> $3`
	rows, err := q.Query(query, studentID, semesterID, models.InvoiceTypeAdmission)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// InvoiceStats summarizes the ledger for the finance dashboard.
type InvoiceStats struct {
	TotalInvoices        int     `json:"total_invoices"`
	PaidInvoices         int     `json:"paid_invoices"`
	PendingInvoices      int     `json:"pending_invoices"`
	TotalBilled          float64 `json:"total_billed"`
	TotalCollected       float64 `json:"total_collected"`
	TotalOutstanding     float64 `json:"total_outstanding"`
	StudentsWithInvoices int     `json:"students_with_invoices"`
}

// GetInvoiceStats aggregates over non-parent invoices only, so installment
// children and their parent are not double counted.
func GetInvoiceStats(q Queryer) (*InvoiceStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN status = 'paid' THEN 1 END),
			COUNT(CASE WHEN status IN ('pending', 'partially_paid', 'overdue') THEN 1 END),
			COALESCE(SUM(total_amount), 0),
			COALESCE(SUM(paid_amount), 0),
			COALESCE(SUM(pending_amount), 0),
			COUNT(DISTINCT student_id)
		FROM invoices i
		WHERE status <> 'cancelled'
		  AND NOT EXISTS (SELECT 1 FROM invoices c WHERE c.parent_invoice_id = i.id)`

	stats := &InvoiceStats{}
	err := q.QueryRow(query).Scan(
		&stats.TotalInvoices, &stats.PaidInvoices, &stats.PendingInvoices,
		&stats.TotalBilled, &stats.TotalCollected, &stats.TotalOutstanding,
		&stats.StudentsWithInvoices,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
