package services

import (
	"testing"
	"time"

	"campus-finance/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func datePtr(t time.Time) *time.Time { return &t }

func TestResolvePortionSchedule(t *testing.T) {
	invoiceDate := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	custom := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)

	portions := []*models.PaymentPortion{
		// intentionally out of order
		{PortionNumber: 3, Percentage: 30, DeadlineType: models.DeadlineDaysFromPrevious, Days: intPtr(30)},
		{PortionNumber: 1, Percentage: 40, DeadlineType: models.DeadlineDaysFromInvoice, Days: intPtr(14)},
		{PortionNumber: 2, Percentage: 30, DeadlineType: models.DeadlineCustomDate, CustomDate: datePtr(custom)},
	}

	resolved := resolvePortionSchedule(portions, invoiceDate)
	require.Len(t, resolved, 3)

	assert.Equal(t, 1, resolved[0].Number)
	assert.Equal(t, invoiceDate.AddDate(0, 0, 14), resolved[0].DueDate)

	assert.Equal(t, 2, resolved[1].Number)
	assert.Equal(t, custom, resolved[1].DueDate)

	// days_from_previous chains off portion 2's custom date, not the
	// invoice date.
	assert.Equal(t, 3, resolved[2].Number)
	assert.Equal(t, custom.AddDate(0, 0, 30), resolved[2].DueDate)
}

func TestResolvePortionScheduleChainsFromInvoiceDate(t *testing.T) {
	invoiceDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	portions := []*models.PaymentPortion{
		{PortionNumber: 1, Percentage: 50, DeadlineType: models.DeadlineDaysFromPrevious, Days: intPtr(10)},
		{PortionNumber: 2, Percentage: 50, DeadlineType: models.DeadlineDaysFromPrevious, Days: intPtr(10)},
	}

	resolved := resolvePortionSchedule(portions, invoiceDate)
	require.Len(t, resolved, 2)
	// The cursor is seeded at the invoice date.
	assert.Equal(t, invoiceDate.AddDate(0, 0, 10), resolved[0].DueDate)
	assert.Equal(t, invoiceDate.AddDate(0, 0, 20), resolved[1].DueDate)
}

func TestSplitPortionAmountsExact(t *testing.T) {
	portions := []resolvedPortion{
		{Number: 1, Percentage: 40},
		{Number: 2, Percentage: 30},
		{Number: 3, Percentage: 30},
	}
	amounts := splitPortionAmounts(1000.00, portions)

	require.Len(t, amounts, 3)
	assert.Equal(t, 400.00, amounts[0])
	assert.Equal(t, 300.00, amounts[1])
	assert.Equal(t, 300.00, amounts[2])

	sum := 0.0
	for _, a := range amounts {
		sum += a
	}
	assert.Equal(t, 1000.00, sum)
}

func TestSplitPortionAmountsRoundingRemainder(t *testing.T) {
	// 3x one-third of 100.00 cannot round cleanly; the last portion
	// absorbs the remainder so the children sum to exactly the total.
	portions := []resolvedPortion{
		{Number: 1, Percentage: 33.33},
		{Number: 2, Percentage: 33.33},
		{Number: 3, Percentage: 33.34},
	}
	amounts := splitPortionAmounts(100.00, portions)

	sum := 0.0
	for _, a := range amounts {
		sum += a
	}
	assert.InDelta(t, 100.00, sum, 0.0001)
	assert.Equal(t, 33.33, amounts[0])
	assert.Equal(t, 33.33, amounts[1])
	assert.Equal(t, 33.34, amounts[2])
}

func TestCollectPortionsRejectsTwoSchedules(t *testing.T) {
	// Two structures each carrying a full schedule would flatten to 200%
	// of the total and drive the last child's amount negative.
	halves := []*models.PaymentPortion{
		{PortionNumber: 1, Percentage: 50, DeadlineType: models.DeadlineDaysFromInvoice, Days: intPtr(0)},
		{PortionNumber: 2, Percentage: 50, DeadlineType: models.DeadlineDaysFromPrevious, Days: intPtr(30)},
	}
	structures := []*models.FeeStructure{
		{Name: "Tuition", Amount: 500, Portions: halves},
		{Name: "Housing", Amount: 500, Portions: halves},
	}

	_, err := collectPortions(structures)
	assert.ErrorIs(t, err, ErrMultiplePortioned)
}

func TestCollectPortionsAllowsOnePortionedStructure(t *testing.T) {
	structures := []*models.FeeStructure{
		{Name: "Library fee", Amount: 40}, // no portions
		{Name: "Tuition", Amount: 960, Portions: []*models.PaymentPortion{
			{PortionNumber: 1, Percentage: 100, DeadlineType: models.DeadlineDaysFromInvoice, Days: intPtr(14)},
		}},
	}

	portions, err := collectPortions(structures)
	require.NoError(t, err)
	require.Len(t, portions, 1)

	amounts := splitPortionAmounts(1000, resolvePortionSchedule(portions, time.Now()))
	require.Len(t, amounts, 1)
	assert.Equal(t, 1000.0, amounts[0])
}

func TestBuildItems(t *testing.T) {
	structures := []*models.FeeStructure{
		{Name: "Tuition 2026", Amount: 900},
	}
	manual := []ManualItem{
		{Name: "Lab kit", Quantity: 2, UnitPrice: 50},
		{Name: "ID card replacement", UnitPrice: 10}, // quantity defaults to 1
	}

	items, err := buildItems(structures, manual)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, 900.0, items[0].TotalAmount)
	assert.Equal(t, 100.0, items[1].TotalAmount)
	assert.Equal(t, 1, items[2].Quantity)
	assert.Equal(t, 10.0, items[2].TotalAmount)
}

func TestBuildItemsRejectsBadLines(t *testing.T) {
	_, err := buildItems(nil, []ManualItem{{Name: "", UnitPrice: 10}})
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = buildItems(nil, []ManualItem{{Name: "Fine", UnitPrice: 0}})
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = buildItems(nil, []ManualItem{{Name: "Fine", UnitPrice: -3}})
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestEligibilityFilters(t *testing.T) {
	semester := "sem-1"
	otherSemester := "sem-2"
	major := "major-cs"

	fs := &models.FeeStructure{
		SemesterIDs:  []string{semester},
		MajorIDs:     nil, // unrestricted
		DegreeLevels: []string{"bachelor"},
	}

	assert.True(t, fs.EligibleFor(&semester, &major, "bachelor"))
	assert.False(t, fs.EligibleFor(&otherSemester, &major, "bachelor"))
	assert.False(t, fs.EligibleFor(&semester, &major, "master"))
	assert.False(t, fs.EligibleFor(nil, &major, "bachelor"), "semester filter set but no semester given")

	open := &models.FeeStructure{}
	assert.True(t, open.EligibleFor(nil, nil, "bachelor"), "empty filters mean unrestricted")
}
