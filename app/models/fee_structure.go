package models

import (
	"fmt"
	"time"
)

// FeeStructure is a priced billing template authored by an administrator.
// The applicability filters each restrict eligibility when non-empty; an
// empty filter means unrestricted. A structure may optionally be split into
// ordered payment portions, which materialize as child invoices.
type FeeStructure struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	FeeTypeID    string     `json:"fee_type_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Name         string     `json:"name" gorm:"not null" validate:"required"`
	Amount       float64    `json:"amount" gorm:"not null;type:decimal(10,2)" validate:"required,gt=0"`
	Currency     string     `json:"currency" gorm:"not null;default:'USD'"`
	SemesterIDs  []string   `json:"semester_ids" gorm:"type:uuid[]"`
	MajorIDs     []string   `json:"major_ids" gorm:"type:uuid[]"`
	DegreeLevels []string   `json:"degree_levels" gorm:"type:text[]"`
	IsActive     bool       `json:"is_active" gorm:"default:true;index"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	FeeType  *FeeType          `json:"fee_type,omitempty" gorm:"foreignKey:FeeTypeID;references:ID"`
	Portions []*PaymentPortion `json:"payment_portions,omitempty" gorm:"foreignKey:FeeStructureID;references:ID"`
}

// EligibleFor reports whether this structure may be billed for the given
// student attributes. Each filter is either empty (unrestricted) or must
// contain the student's matching value.
func (fs *FeeStructure) EligibleFor(semesterID, majorID *string, degreeLevel string) bool {
	if !matchesFilter(fs.SemesterIDs, semesterID) {
		return false
	}
	if !matchesFilter(fs.MajorIDs, majorID) {
		return false
	}
	if len(fs.DegreeLevels) > 0 {
		found := false
		for _, lvl := range fs.DegreeLevels {
			if lvl == degreeLevel {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchesFilter(filter []string, value *string) bool {
	if len(filter) == 0 {
		return true
	}
	if value == nil {
		return false
	}
	for _, v := range filter {
		if v == *value {
			return true
		}
	}
	return false
}

// ValidatePortions checks that a portion schedule is well formed: numbered
// sequentially from 1, every deadline fully specified, and percentages
// summing to exactly 100. The invoice splitter relies on this; a schedule
// over 100% would mint a negative final child invoice.
func ValidatePortions(portions []*PaymentPortion) error {
	if len(portions) == 0 {
		return nil
	}
	total := 0.0
	for i, p := range portions {
		if p.PortionNumber != i+1 {
			return fmt.Errorf("payment portions must be numbered sequentially from 1")
		}
		if p.Percentage <= 0 {
			return fmt.Errorf("portion %d needs a positive percentage", p.PortionNumber)
		}
		switch p.DeadlineType {
		case DeadlineCustomDate:
			if p.CustomDate == nil {
				return fmt.Errorf("portion %d uses custom_date but carries no date", p.PortionNumber)
			}
		case DeadlineDaysFromInvoice, DeadlineDaysFromPrevious:
			if p.Days == nil || *p.Days < 0 {
				return fmt.Errorf("portion %d needs a non-negative day count", p.PortionNumber)
			}
		default:
			return fmt.Errorf("portion %d has unknown deadline type %q", p.PortionNumber, p.DeadlineType)
		}
		total += p.Percentage
	}
	if total < 99.99 || total > 100.01 {
		return fmt.Errorf("portion percentages must sum to 100, got %.2f", total)
	}
	return nil
}

// PaymentPortion is a percentage-and-deadline slice of a fee structure.
type PaymentPortion struct {
	ID             string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FeeStructureID string       `json:"fee_structure_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	PortionNumber  int          `json:"portion_number" gorm:"not null" validate:"required,gt=0"`
	Percentage     float64      `json:"percentage" gorm:"not null;type:decimal(5,2)" validate:"required,gt=0,lte=100"`
	DeadlineType   DeadlineType `json:"deadline_type" gorm:"not null;type:varchar(30)" validate:"required,oneof=custom_date days_from_invoice days_from_previous"`
	Days           *int         `json:"days,omitempty"`
	CustomDate     *time.Time   `json:"custom_date,omitempty" gorm:"type:date"`
}
