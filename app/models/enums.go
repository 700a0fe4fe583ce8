package models

// InvoiceStatus defines the lifecycle states of an invoice.
type InvoiceStatus string

const (
	InvoicePending       InvoiceStatus = "pending"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceOverdue       InvoiceStatus = "overdue"
	InvoiceCancelled     InvoiceStatus = "cancelled"
)

// PaymentStatus defines the status of a payment record.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentRejected PaymentStatus = "rejected"
)

// PaymentMethod defines how a payment was made.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodMobileMoney  PaymentMethod = "mobile_money"
	MethodCard         PaymentMethod = "card"
	MethodAdmin        PaymentMethod = "admin"
)

// SettlesImmediately reports whether payments with this method are recorded
// as already settled (cash at the bursar's desk or an admin-entered record).
func (m PaymentMethod) SettlesImmediately() bool {
	return m == MethodCash || m == MethodAdmin
}

// Milestone is a discrete payment-completion checkpoint for a student's
// semester. The numeric suffix is the minimum percentage of the semester's
// billed total that has been paid.
type Milestone string

const (
	MilestonePM00  Milestone = "PM00"
	MilestonePM10  Milestone = "PM10"
	MilestonePM30  Milestone = "PM30"
	MilestonePM60  Milestone = "PM60"
	MilestonePM90  Milestone = "PM90"
	MilestonePM100 Milestone = "PM100"
)

var milestoneValues = map[Milestone]int{
	MilestonePM00:  0,
	MilestonePM10:  10,
	MilestonePM30:  30,
	MilestonePM60:  60,
	MilestonePM90:  90,
	MilestonePM100: 100,
}

// Value returns the numeric threshold of the milestone. Unknown codes
// resolve to 0 so a garbled milestone can never unlock anything.
func (m Milestone) Value() int {
	return milestoneValues[m]
}

// FinancialHold is an administrative flag on a student that blocks a fixed
// set of actions regardless of the payment milestone.
type FinancialHold string

const (
	HoldNoPayment   FinancialHold = "FHNP"
	HoldPaymentPlan FinancialHold = "FHPP"
	HoldOverdue     FinancialHold = "FHOD"
	HoldChargeback  FinancialHold = "FHCH"
	HoldExamOffice  FinancialHold = "FHEX"
)

// IsValid reports whether the hold code is one of the recognized reasons.
func (h FinancialHold) IsValid() bool {
	switch h {
	case HoldNoPayment, HoldPaymentPlan, HoldOverdue, HoldChargeback, HoldExamOffice:
		return true
	}
	return false
}

// GradesVisibility controls whether a student's grades have been released.
type GradesVisibility string

const (
	GradesReleased GradesVisibility = "GV_REL"
	GradesHidden   GradesVisibility = "GV_HID"
)

// EnrollmentStatus defines a student's enrollment state.
type EnrollmentStatus string

const (
	EnrollmentPending EnrollmentStatus = "ENPN"
	EnrollmentActive  EnrollmentStatus = "ENAC"
	EnrollmentDropped EnrollmentStatus = "ENDR"
)

// DeadlineType defines how a payment portion's due date is resolved.
type DeadlineType string

const (
	DeadlineCustomDate       DeadlineType = "custom_date"
	DeadlineDaysFromInvoice  DeadlineType = "days_from_invoice"
	DeadlineDaysFromPrevious DeadlineType = "days_from_previous"
)

// Well-known invoice types. The invoice_type column carries the fee type
// code; only admission fees get special treatment (excluded from the
// semester milestone aggregation).
const (
	InvoiceTypeTuition   = "tuition_fee"
	InvoiceTypeAdmission = "admission_fee"
	InvoiceTypeManual    = "manual"
)
