package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func portion(n int, pct float64) *PaymentPortion {
	return &PaymentPortion{
		PortionNumber: n,
		Percentage:    pct,
		DeadlineType:  DeadlineDaysFromInvoice,
		Days:          intPtr(30 * n),
	}
}

func TestValidatePortions(t *testing.T) {
	now := time.Now()

	t.Run("empty schedule is fine", func(t *testing.T) {
		assert.NoError(t, ValidatePortions(nil))
	})

	t.Run("well formed schedule", func(t *testing.T) {
		assert.NoError(t, ValidatePortions([]*PaymentPortion{
			portion(1, 40), portion(2, 30), portion(3, 30),
		}))
	})

	t.Run("percentages over 100 rejected", func(t *testing.T) {
		err := ValidatePortions([]*PaymentPortion{
			portion(1, 50), portion(2, 50), portion(3, 50), portion(4, 50),
		})
		assert.ErrorContains(t, err, "sum to 100")
	})

	t.Run("percentages under 100 rejected", func(t *testing.T) {
		err := ValidatePortions([]*PaymentPortion{portion(1, 60), portion(2, 30)})
		assert.ErrorContains(t, err, "sum to 100")
	})

	t.Run("non-sequential numbering rejected", func(t *testing.T) {
		err := ValidatePortions([]*PaymentPortion{portion(2, 50), portion(3, 50)})
		assert.ErrorContains(t, err, "numbered sequentially")
	})

	t.Run("custom_date needs a date", func(t *testing.T) {
		err := ValidatePortions([]*PaymentPortion{
			{PortionNumber: 1, Percentage: 100, DeadlineType: DeadlineCustomDate},
		})
		assert.ErrorContains(t, err, "no date")

		assert.NoError(t, ValidatePortions([]*PaymentPortion{
			{PortionNumber: 1, Percentage: 100, DeadlineType: DeadlineCustomDate, CustomDate: &now},
		}))
	})

	t.Run("day-based portions need a day count", func(t *testing.T) {
		err := ValidatePortions([]*PaymentPortion{
			{PortionNumber: 1, Percentage: 100, DeadlineType: DeadlineDaysFromPrevious},
		})
		assert.ErrorContains(t, err, "day count")
	})

	t.Run("unknown deadline type rejected", func(t *testing.T) {
		err := ValidatePortions([]*PaymentPortion{
			{PortionNumber: 1, Percentage: 100, DeadlineType: "whenever"},
		})
		assert.ErrorContains(t, err, "unknown deadline type")
	})
}
