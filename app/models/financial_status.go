package models

import "time"

// StudentSemesterFinancialStatus is the derived payment milestone for one
// student in one semester, unique per (student_id, semester_id). It is
// recomputed in place from the invoice ledger and never hand-edited.
type StudentSemesterFinancialStatus struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentID     string    `json:"student_id" gorm:"not null;uniqueIndex:idx_student_semester;type:uuid"`
	SemesterID    string    `json:"semester_id" gorm:"not null;uniqueIndex:idx_student_semester;type:uuid"`
	MilestoneCode Milestone `json:"milestone_code" gorm:"not null;default:'PM00';type:varchar(10)"`
	TotalDue      float64   `json:"total_due" gorm:"not null;default:0;type:decimal(10,2)"`
	TotalPaid     float64   `json:"total_paid" gorm:"not null;default:0;type:decimal(10,2)"`
	HoldCode      *string   `json:"hold_code,omitempty" gorm:"type:varchar(10)"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
