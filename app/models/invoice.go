package models

import "time"

// Invoice represents a billed amount for a student. When a fee structure is
// split into payment portions the full total lives on a parent invoice and
// each portion becomes a child invoice pointing back via ParentInvoiceID.
// Invariant: PaidAmount + PendingAmount == TotalAmount, all >= 0.
type Invoice struct {
	ID                string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentID         string        `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	SemesterID        *string       `json:"semester_id,omitempty" gorm:"index;type:uuid"`
	FeeStructureID    *string       `json:"fee_structure_id,omitempty" gorm:"index;type:uuid"`
	InvoiceType       string        `json:"invoice_type" gorm:"not null;index;type:varchar(50)"`
	Status            InvoiceStatus `json:"status" gorm:"not null;default:'pending';index;type:varchar(20)"`
	Subtotal          float64       `json:"subtotal" gorm:"not null;type:decimal(10,2)"`
	Discount          float64       `json:"discount" gorm:"not null;default:0;type:decimal(10,2)"`
	TotalAmount       float64       `json:"total_amount" gorm:"not null;type:decimal(10,2)"`
	PaidAmount        float64       `json:"paid_amount" gorm:"not null;default:0;type:decimal(10,2)"`
	PendingAmount     float64       `json:"pending_amount" gorm:"not null;default:0;type:decimal(10,2)"`
	ParentInvoiceID   *string       `json:"parent_invoice_id,omitempty" gorm:"index;type:uuid"`
	PortionNumber     *int          `json:"portion_number,omitempty"`
	PortionPercentage *float64      `json:"portion_percentage,omitempty" gorm:"type:decimal(5,2)"`
	InvoiceDate       time.Time     `json:"invoice_date" gorm:"not null;type:date"`
	DueDate           *time.Time    `json:"due_date,omitempty" gorm:"type:date"`
	CreatedAt         time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	Items    []*InvoiceItem `json:"items,omitempty" gorm:"foreignKey:InvoiceID;references:ID"`
	Children []*Invoice     `json:"children,omitempty" gorm:"foreignKey:ParentInvoiceID;references:ID"`
}

// IsParent reports whether this invoice only aggregates child portion
// invoices. Parents carry the full total for display but are excluded from
// milestone aggregation so money is never counted twice.
func (i *Invoice) IsParent() bool {
	return i.ParentInvoiceID == nil && len(i.Children) > 0
}

// StatusForAmounts derives the invoice status from paid/pending amounts.
func StatusForAmounts(paid, pending float64) InvoiceStatus {
	switch {
	case pending == 0:
		return InvoicePaid
	case paid > 0:
		return InvoicePartiallyPaid
	default:
		return InvoicePending
	}
}

// InvoiceItem is one line on an invoice.
type InvoiceItem struct {
	ID          string  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	InvoiceID   string  `json:"invoice_id" gorm:"not null;index;type:uuid"`
	Name        string  `json:"name" gorm:"not null" validate:"required"`
	Quantity    int     `json:"quantity" gorm:"not null;default:1" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" gorm:"not null;type:decimal(10,2)" validate:"required,gt=0"`
	TotalAmount float64 `json:"total_amount" gorm:"not null;type:decimal(10,2)"`
}
