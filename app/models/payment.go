package models

import "time"

// Payment represents money received against a single invoice.
// Invariant: the sum of verified payment amounts for an invoice never
// exceeds the invoice's total amount.
type Payment struct {
	ID         string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	InvoiceID  string        `json:"invoice_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	StudentID  string        `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Amount     float64       `json:"amount" gorm:"not null;type:decimal(10,2)" validate:"required,gt=0"`
	Method     PaymentMethod `json:"method" gorm:"not null;type:varchar(30)" validate:"required"`
	Status     PaymentStatus `json:"status" gorm:"not null;default:'pending';index;type:varchar(20)"`
	Reference  string        `json:"reference" gorm:"uniqueIndex;not null"`
	VerifiedBy *string       `json:"verified_by,omitempty" gorm:"type:uuid"`
	VerifiedAt *time.Time    `json:"verified_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}
