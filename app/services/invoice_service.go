package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"campus-finance/app/database"
	"campus-finance/app/models"

	"github.com/google/uuid"
)

// Validation failures surfaced before any write.
var (
	ErrStudentRequired      = errors.New("a student must be selected")
	ErrSemesterRequired     = errors.New("this fee type requires a semester")
	ErrInvalidItem          = errors.New("every line item needs a name and a positive unit price")
	ErrNothingToInvoice     = errors.New("select at least one fee structure or add a line item")
	ErrInvalidDiscount      = errors.New("discount cannot exceed the invoice subtotal")
	ErrStructureNotEligible = errors.New("a selected fee structure does not apply to this student")
	ErrMultiplePortioned    = errors.New("only one fee structure with payment portions can be billed per invoice")
)

// ManualItem is a free-form line entered by the finance office alongside
// fee structure selections.
type ManualItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CreateInvoiceInput is everything the invoice builder needs.
type CreateInvoiceInput struct {
	StudentID       string
	FeeStructureIDs []string
	ManualItems     []ManualItem
	InvoiceDate     time.Time
	SemesterID      *string
	InvoiceType     string
	Discount        float64
	PaymentMethod   models.PaymentMethod
	RecordedBy      *string
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateInvoice turns fee structure selections plus manual line items into
// one persisted invoice, or a parent with one child per payment portion
// when any selected structure is split. The entire multi-row creation runs
// in a single transaction; a mid-sequence failure leaves nothing behind.
//
// The first returned invoice is the one the caller should present: the
// single invoice in the plain case, the parent in the portioned case (with
// Children populated).
func CreateInvoice(db *sql.DB, in CreateInvoiceInput) (*models.Invoice, error) {
	if in.StudentID == "" {
		return nil, ErrStudentRequired
	}
	if len(in.FeeStructureIDs) == 0 && len(in.ManualItems) == 0 {
		return nil, ErrNothingToInvoice
	}
	if in.InvoiceDate.IsZero() {
		in.InvoiceDate = time.Now()
	}

	student, err := database.GetStudentByID(db, in.StudentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStudentRequired
		}
		return nil, fmt.Errorf("failed to load student: %v", err)
	}

	structures, err := database.GetFeeStructuresByIDs(db, in.FeeStructureIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load fee structures: %v", err)
	}
	if len(structures) != len(in.FeeStructureIDs) {
		return nil, fmt.Errorf("one or more selected fee structures do not exist or are inactive")
	}
	for _, fs := range structures {
		if !fs.EligibleFor(in.SemesterID, student.MajorID, student.DegreeLevel) {
			return nil, fmt.Errorf("%w: %s", ErrStructureNotEligible, fs.Name)
		}
	}

	invoiceType, err := resolveInvoiceType(db, in, structures)
	if err != nil {
		return nil, err
	}

	items, err := buildItems(structures, in.ManualItems)
	if err != nil {
		return nil, err
	}

	subtotal := 0.0
	for _, item := range items {
		subtotal += item.TotalAmount
	}
	subtotal = round2(subtotal)
	total := round2(subtotal - in.Discount)
	if in.Discount < 0 || total < 0 {
		return nil, ErrInvalidDiscount
	}

	portions, err := collectPortions(structures)
	if err != nil {
		return nil, err
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	var invoice *models.Invoice
	var settled []*models.Invoice // non-parent invoices to record payments for
	prePaid := in.PaymentMethod.SettlesImmediately()

	if len(portions) == 0 {
		invoice, err = createSingleInvoice(tx, in, invoiceType, items, subtotal, total, prePaid)
		if err != nil {
			return nil, err
		}
		settled = []*models.Invoice{invoice}
	} else {
		invoice, err = createPortionedInvoice(tx, in, invoiceType, items, subtotal, total, portions, prePaid)
		if err != nil {
			return nil, err
		}
		settled = invoice.Children
	}

	if prePaid {
		for _, inv := range settled {
			if err := recordSettlement(tx, inv, in.PaymentMethod, in.RecordedBy); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit invoice creation: %v", err)
	}

	if in.SemesterID != nil && invoiceType != models.InvoiceTypeAdmission {
		// The invoices are committed; a recompute failure is already
		// logged and queued for retry, and must not fail the creation.
		_ = RecomputeFinancialStatus(db, in.StudentID, *in.SemesterID)
	}
	return invoice, nil
}

// resolveInvoiceType picks the invoice type and enforces the fee type's
// semester requirement. Manual-only invoices carry the manual type, which
// has no catalog entry and no semester requirement.
func resolveInvoiceType(db *sql.DB, in CreateInvoiceInput, structures []*models.FeeStructure) (string, error) {
	invoiceType := strings.TrimSpace(in.InvoiceType)
	var feeType *models.FeeType
	var err error

	switch {
	case invoiceType != "" && invoiceType != models.InvoiceTypeManual:
		feeType, err = database.GetFeeTypeByCode(db, invoiceType)
		if err != nil {
			if err == sql.ErrNoRows {
				return "", fmt.Errorf("unknown invoice type %q", invoiceType)
			}
			return "", fmt.Errorf("failed to load fee type: %v", err)
		}
	case len(structures) > 0:
		feeType, err = database.GetFeeTypeByID(db, structures[0].FeeTypeID)
		if err != nil {
			return "", fmt.Errorf("failed to load fee type: %v", err)
		}
		invoiceType = feeType.Code
	default:
		invoiceType = models.InvoiceTypeManual
	}

	if feeType != nil && feeType.RequiresSemester && in.SemesterID == nil {
		return "", ErrSemesterRequired
	}
	return invoiceType, nil
}

func buildItems(structures []*models.FeeStructure, manual []ManualItem) ([]*models.InvoiceItem, error) {
	var items []*models.InvoiceItem
	for _, fs := range structures {
		items = append(items, &models.InvoiceItem{
			Name:        fs.Name,
			Quantity:    1,
			UnitPrice:   fs.Amount,
			TotalAmount: round2(fs.Amount),
		})
	}
	for _, m := range manual {
		if m.Quantity == 0 {
			m.Quantity = 1
		}
		if strings.TrimSpace(m.Name) == "" || m.UnitPrice <= 0 || m.Quantity < 0 {
			return nil, ErrInvalidItem
		}
		items = append(items, &models.InvoiceItem{
			Name:        m.Name,
			Quantity:    m.Quantity,
			UnitPrice:   m.UnitPrice,
			TotalAmount: round2(float64(m.Quantity) * m.UnitPrice),
		})
	}
	return items, nil
}

func createSingleInvoice(tx *sql.Tx, in CreateInvoiceInput, invoiceType string, items []*models.InvoiceItem, subtotal, total float64, prePaid bool) (*models.Invoice, error) {
	inv := &models.Invoice{
		StudentID:     in.StudentID,
		SemesterID:    in.SemesterID,
		InvoiceType:   invoiceType,
		Status:        models.InvoicePending,
		Subtotal:      subtotal,
		Discount:      in.Discount,
		TotalAmount:   total,
		PendingAmount: total,
		InvoiceDate:   in.InvoiceDate,
	}
	if len(in.FeeStructureIDs) == 1 {
		inv.FeeStructureID = &in.FeeStructureIDs[0]
	}
	if prePaid {
		inv.Status = models.InvoicePaid
		inv.PaidAmount = total
		inv.PendingAmount = 0
	}
	if err := database.InsertInvoice(tx, inv); err != nil {
		return nil, err
	}
	for _, item := range items {
		item.InvoiceID = inv.ID
		if err := database.InsertInvoiceItem(tx, item); err != nil {
			return nil, err
		}
	}
	inv.Items = items
	return inv, nil
}

// collectPortions picks the portion schedule for the invoice. At most one
// selected structure may carry portions: merging two schedules would push
// the combined percentages past 100 and drive the final child's amount
// negative when the remainder is absorbed.
func collectPortions(structures []*models.FeeStructure) ([]*models.PaymentPortion, error) {
	var portions []*models.PaymentPortion
	for _, fs := range structures {
		if len(fs.Portions) == 0 {
			continue
		}
		if portions != nil {
			return nil, ErrMultiplePortioned
		}
		portions = fs.Portions
	}
	return portions, nil
}

// resolvedPortion is a payment portion with its due date fixed.
type resolvedPortion struct {
	Number     int
	Percentage float64
	DueDate    time.Time
}

// resolvePortionSchedule orders the portions and resolves each due date.
// days_from_previous chains off the previous portion's resolved due date,
// so the cursor threads through the fold seeded at the invoice date.
func resolvePortionSchedule(portions []*models.PaymentPortion, invoiceDate time.Time) []resolvedPortion {
	sorted := make([]*models.PaymentPortion, len(portions))
	copy(sorted, portions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PortionNumber < sorted[j].PortionNumber
	})

	resolved := make([]resolvedPortion, 0, len(sorted))
	cursor := invoiceDate
	for _, p := range sorted {
		due := cursor
		switch p.DeadlineType {
		case models.DeadlineCustomDate:
			if p.CustomDate != nil {
				due = *p.CustomDate
			}
		case models.DeadlineDaysFromInvoice:
			if p.Days != nil {
				due = invoiceDate.AddDate(0, 0, *p.Days)
			}
		case models.DeadlineDaysFromPrevious:
			if p.Days != nil {
				due = cursor.AddDate(0, 0, *p.Days)
			}
		}
		resolved = append(resolved, resolvedPortion{Number: p.PortionNumber, Percentage: p.Percentage, DueDate: due})
		cursor = due
	}
	return resolved
}

// splitPortionAmounts divides the invoice total by portion percentage. The
// last portion absorbs the rounding remainder so the children always sum to
// exactly the total.
func splitPortionAmounts(total float64, portions []resolvedPortion) []float64 {
	amounts := make([]float64, len(portions))
	allocated := 0.0
	for i, p := range portions {
		if i == len(portions)-1 {
			amounts[i] = round2(total - allocated)
			break
		}
		amounts[i] = round2(total * p.Percentage / 100)
		allocated = round2(allocated + amounts[i])
	}
	return amounts
}

func createPortionedInvoice(tx *sql.Tx, in CreateInvoiceInput, invoiceType string, items []*models.InvoiceItem, subtotal, total float64, portions []*models.PaymentPortion, prePaid bool) (*models.Invoice, error) {
	parent := &models.Invoice{
		StudentID:     in.StudentID,
		SemesterID:    in.SemesterID,
		InvoiceType:   invoiceType,
		Status:        models.InvoicePending,
		Subtotal:      subtotal,
		Discount:      in.Discount,
		TotalAmount:   total,
		PendingAmount: total,
		InvoiceDate:   in.InvoiceDate,
	}
	if len(in.FeeStructureIDs) == 1 {
		parent.FeeStructureID = &in.FeeStructureIDs[0]
	}
	if err := database.InsertInvoice(tx, parent); err != nil {
		return nil, err
	}
	for _, item := range items {
		item.InvoiceID = parent.ID
		if err := database.InsertInvoiceItem(tx, item); err != nil {
			return nil, err
		}
	}
	parent.Items = items

	schedule := resolvePortionSchedule(portions, in.InvoiceDate)
	amounts := splitPortionAmounts(total, schedule)

	parentPaid, parentPending := 0.0, 0.0
	for i := range schedule {
		rp := schedule[i]
		child := &models.Invoice{
			StudentID:         in.StudentID,
			SemesterID:        in.SemesterID,
			FeeStructureID:    parent.FeeStructureID,
			InvoiceType:       invoiceType,
			Status:            models.InvoicePending,
			Subtotal:          amounts[i],
			TotalAmount:       amounts[i],
			PendingAmount:     amounts[i],
			ParentInvoiceID:   &parent.ID,
			PortionNumber:     &rp.Number,
			PortionPercentage: &rp.Percentage,
			InvoiceDate:       in.InvoiceDate,
			DueDate:           &rp.DueDate,
		}
		if prePaid {
			child.Status = models.InvoicePaid
			child.PaidAmount = amounts[i]
			child.PendingAmount = 0
		}
		if err := database.InsertInvoice(tx, child); err != nil {
			return nil, err
		}
		for _, item := range items {
			childItem := &models.InvoiceItem{
				InvoiceID:   child.ID,
				Name:        fmt.Sprintf("%s (portion %d, %.0f%%)", item.Name, rp.Number, rp.Percentage),
				Quantity:    item.Quantity,
				UnitPrice:   round2(item.UnitPrice * rp.Percentage / 100),
				TotalAmount: round2(item.TotalAmount * rp.Percentage / 100),
			}
			if err := database.InsertInvoiceItem(tx, childItem); err != nil {
				return nil, err
			}
			child.Items = append(child.Items, childItem)
		}
		parentPaid += child.PaidAmount
		parentPending += child.PendingAmount
		parent.Children = append(parent.Children, child)
	}

	// Roll the children back up into the parent.
	parent.PaidAmount = round2(parentPaid)
	parent.PendingAmount = round2(parentPending)
	parent.Status = models.StatusForAmounts(parent.PaidAmount, parent.PendingAmount)
	if err := database.UpdateInvoiceAmounts(tx, parent.ID, parent.PaidAmount, parent.PendingAmount, parent.Status); err != nil {
		return nil, err
	}
	return parent, nil
}

// recordSettlement creates the verified payment that settles a freshly
// created, immediately paid invoice.
func recordSettlement(tx *sql.Tx, inv *models.Invoice, method models.PaymentMethod, recordedBy *string) error {
	now := time.Now()
	payment := &models.Payment{
		InvoiceID:  inv.ID,
		StudentID:  inv.StudentID,
		Amount:     inv.TotalAmount,
		Method:     method,
		Status:     models.PaymentVerified,
		Reference:  newPaymentReference(),
		VerifiedBy: recordedBy,
		VerifiedAt: &now,
	}
	return database.InsertPayment(tx, payment)
}

func newPaymentReference() string {
	return "PAY-" + strings.ToUpper(uuid.New().String()[:8])
}
