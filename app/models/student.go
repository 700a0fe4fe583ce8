package models

import "time"

// Student carries the attributes the financial engine reads: eligibility
// filters (major, degree level), the enrollment status driven by the first
// payment milestone, the student-wide financial hold and the grade release
// flag. Full student record management lives in the surrounding application.
type Student struct {
	ID                      string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentNo               string           `json:"student_no" gorm:"uniqueIndex;not null"`
	FirstName               string           `json:"first_name" gorm:"not null"`
	LastName                string           `json:"last_name" gorm:"not null"`
	Email                   string           `json:"email" gorm:"uniqueIndex"`
	MajorID                 *string          `json:"major_id,omitempty" gorm:"index;type:uuid"`
	DegreeLevel             string           `json:"degree_level" gorm:"type:varchar(30)"`
	EnrollmentStatus        EnrollmentStatus `json:"enrollment_status" gorm:"not null;default:'ENPN';type:varchar(10)"`
	FinancialHoldReasonCode *string          `json:"financial_hold_reason_code,omitempty" gorm:"type:varchar(10)"`
	GradesVisibility        GradesVisibility `json:"grades_visibility" gorm:"not null;default:'GV_REL';type:varchar(10)"`
	IsActive                bool             `json:"is_active" gorm:"default:true;index"`
	CreatedAt               time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt               time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt               *time.Time       `json:"deleted_at,omitempty" gorm:"index"`
}

// Hold returns the student's financial hold, or "" when none is set.
func (s *Student) Hold() FinancialHold {
	if s.FinancialHoldReasonCode == nil {
		return ""
	}
	return FinancialHold(*s.FinancialHoldReasonCode)
}

// Semester represents an academic term.
type Semester struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code      string    `json:"code" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"not null"`
	StartDate time.Time `json:"start_date" gorm:"not null;type:date"`
	EndDate   time.Time `json:"end_date" gorm:"not null;type:date"`
	IsCurrent bool      `json:"is_current" gorm:"default:false;index"`
}
