package services

import (
	"testing"

	"campus-finance/app/models"

	"github.com/stretchr/testify/assert"
)

func TestMilestoneFor(t *testing.T) {
	tests := []struct {
		name string
		paid float64
		due  float64
		want models.Milestone
	}{
		{"nothing due counts as fully paid", 0, 0, models.MilestonePM100},
		{"nothing due ignores paid", 250, 0, models.MilestonePM100},
		{"no payment", 0, 500, models.MilestonePM00},
		{"below first tier", 49.99, 500, models.MilestonePM00},
		{"exactly 10 percent", 50, 500, models.MilestonePM10},
		{"exactly 30 percent", 150, 500, models.MilestonePM30},
		{"just under 30 percent", 149.99, 500, models.MilestonePM10},
		{"between 30 and 60", 250, 500, models.MilestonePM30},
		{"exactly 60 percent", 300, 500, models.MilestonePM60},
		{"seventy percent", 350, 500, models.MilestonePM60},
		{"exactly 90 percent", 450, 500, models.MilestonePM90},
		{"full payment", 500, 500, models.MilestonePM100},
		{"overpayment stays at top", 600, 500, models.MilestonePM100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, milestoneFor(tt.paid, tt.due))
		})
	}
}

func TestSumLedgerExcludesAggregators(t *testing.T) {
	parentID := "parent-1"
	invoices := []*models.Invoice{
		{ID: parentID, TotalAmount: 1000, PaidAmount: 400, Status: models.InvoicePartiallyPaid},
		{ID: "child-1", ParentInvoiceID: &parentID, TotalAmount: 400, PaidAmount: 400, Status: models.InvoicePaid},
		{ID: "child-2", ParentInvoiceID: &parentID, TotalAmount: 600, PaidAmount: 0, Status: models.InvoicePending},
	}

	due, paid := sumLedger(invoices)
	assert.Equal(t, 1000.0, due, "parent must not be counted on top of its children")
	assert.Equal(t, 400.0, paid)
}

func TestSumLedgerCountsTrueSingles(t *testing.T) {
	invoices := []*models.Invoice{
		{ID: "a", TotalAmount: 300, PaidAmount: 300, Status: models.InvoicePaid},
		{ID: "b", TotalAmount: 200, PaidAmount: 50, Status: models.InvoicePartiallyPaid},
		{ID: "c", TotalAmount: 100, PaidAmount: 0, Status: models.InvoicePending},
	}

	due, paid := sumLedger(invoices)
	assert.Equal(t, 600.0, due)
	assert.Equal(t, 350.0, paid)
}

func TestSumLedgerIgnoresPaidAmountOfPendingInvoices(t *testing.T) {
	// A pending invoice contributes to the due total but its paid amount
	// only counts once the status reflects a payment.
	invoices := []*models.Invoice{
		{ID: "a", TotalAmount: 500, PaidAmount: 100, Status: models.InvoicePending},
	}
	due, paid := sumLedger(invoices)
	assert.Equal(t, 500.0, due)
	assert.Equal(t, 0.0, paid)
}

func TestSumLedgerIgnoresAdmissionFees(t *testing.T) {
	// A paid admission fee must not inflate the semester milestone.
	invoices := []*models.Invoice{
		{ID: "adm", InvoiceType: models.InvoiceTypeAdmission, TotalAmount: 200, PaidAmount: 200, Status: models.InvoicePaid},
		{ID: "tui", InvoiceType: models.InvoiceTypeTuition, TotalAmount: 500, PaidAmount: 0, Status: models.InvoicePending},
	}

	due, paid := sumLedger(invoices)
	assert.Equal(t, 500.0, due)
	assert.Equal(t, 0.0, paid)
	assert.Equal(t, models.MilestonePM00, milestoneFor(paid, due))
}

func TestSumLedgerEndToEndMilestones(t *testing.T) {
	// 500 due, 150 paid (30%) then 350 paid (70%).
	invoices := []*models.Invoice{
		{ID: "a", TotalAmount: 500, PaidAmount: 150, Status: models.InvoicePartiallyPaid},
	}
	due, paid := sumLedger(invoices)
	assert.Equal(t, models.MilestonePM30, milestoneFor(paid, due))

	invoices[0].PaidAmount = 350
	due, paid = sumLedger(invoices)
	assert.Equal(t, models.MilestonePM60, milestoneFor(paid, due))
}
